/*
Package node contains commands inspecting and tuning the node itself:
consensus, peers, log levels and constants.
*/
package node

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nimiq-community/nimiq-go/cli/cmdargs"
	"github.com/nimiq-community/nimiq-go/cli/flags"
	"github.com/nimiq-community/nimiq-go/cli/options"
	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc/result"
	"github.com/urfave/cli"
)

// NewCommands returns 'node' command.
func NewCommands() []cli.Command {
	rpcFlags := append([]cli.Flag{options.ConfigFile, options.Debug}, options.RPC...)
	peerFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "command, c",
			Usage: "Change the peer state: connect, disconnect, ban or unban",
		},
	}, rpcFlags...)
	constantFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "reset",
			Usage: "Reset the constant to its default value",
		},
	}, rpcFlags...)
	return []cli.Command{{
		Name:  "node",
		Usage: "Inspect and configure the node",
		Subcommands: []cli.Command{
			{
				Name:   "consensus",
				Usage:  "Print consensus state",
				Action: consensus,
				Flags:  rpcFlags,
			},
			{
				Name:   "syncing",
				Usage:  "Print sync progress",
				Action: syncing,
				Flags:  rpcFlags,
			},
			{
				Name:   "peers",
				Usage:  "List known peers",
				Action: peers,
				Flags:  rpcFlags,
			},
			{
				Name:      "peer",
				Usage:     "Print or change the state of a peer",
				UsageText: "nimiq-cli node peer [--command <cmd>] <address>",
				Action:    peer,
				Flags:     peerFlags,
			},
			{
				Name:      "log",
				Usage:     "Set log level of the node",
				UsageText: "nimiq-cli node log <tag> <level>",
				Description: `Sets the log level for the given tag, '*' stands for all tags.
   Level is one of trace, verbose, debug, info, warn, error and assert.`,
				Action: setLog,
				Flags:  rpcFlags,
			},
			{
				Name:      "constant",
				Usage:     "Print, override or reset a node constant",
				UsageText: "nimiq-cli node constant [--reset] <name> [<value>]",
				Action:    constant,
				Flags:     constantFlags,
			},
			{
				Name:      "min-fee",
				Usage:     "Print or set the minimum fee per byte accepted by the node",
				UsageText: "nimiq-cli node min-fee [<luna>]",
				Action:    minFee,
				Flags:     rpcFlags,
			},
		},
	}}
}

func consensus(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	state, err := c.Consensus()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, state)
	return nil
}

func syncing(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	res, err := c.Syncing()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !res.IsSyncing() {
		fmt.Fprintln(ctx.App.Writer, "Syncing: false")
		return nil
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Syncing:\ttrue")
	if res.Status != nil {
		fmt.Fprintf(w, "Starting block:\t%d\n", res.Status.StartingBlock)
		fmt.Fprintf(w, "Current block:\t%d\n", res.Status.CurrentBlock)
		fmt.Fprintf(w, "Highest block:\t%d\n", res.Status.HighestBlock)
	}
	return w.Flush()
}

func peers(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	list, err := c.PeerList()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tADDRESS\tSTATE\tCONNECTION")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Address, p.AddressState, p.ConnectionState)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "Total: %d\n", len(list))
	return nil
}

func peer(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "peer address"); err != nil {
		return err
	}
	var (
		cmd result.PeerStateCommand
		err error
	)
	if s := ctx.String("command"); s != "" {
		cmd, err = result.ParsePeerStateCommand(s)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	var p *result.Peer
	if cmd != "" {
		p, err = c.SetPeerState(ctx.Args().First(), cmd)
	} else {
		p, err = c.PeerState(ctx.Args().First())
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if p == nil {
		return cli.NewExitError(fmt.Sprintf("unknown peer %s", ctx.Args().First()), 1)
	}
	dumpPeer(ctx, p)
	return nil
}

func dumpPeer(ctx *cli.Context, p *result.Peer) {
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Address:\t%s\n", p.Address)
	fmt.Fprintf(w, "Address state:\t%s\n", p.AddressState)
	fmt.Fprintf(w, "Connection state:\t%s\n", p.ConnectionState)
	if p.ConnectionState != 0 {
		fmt.Fprintf(w, "Version:\t%d\n", p.Version)
		fmt.Fprintf(w, "Time offset:\t%d\n", p.TimeOffset)
		fmt.Fprintf(w, "Head hash:\t%s\n", p.HeadHash)
		fmt.Fprintf(w, "Latency:\t%d\n", p.Latency)
		fmt.Fprintf(w, "Received:\t%d\n", p.Rx)
		fmt.Fprintf(w, "Sent:\t%d\n", p.Tx)
	}
	_ = w.Flush()
}

func setLog(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 2, "tag and level"); err != nil {
		return err
	}
	level, err := result.ParseLogLevel(ctx.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	ok, err := c.Log(ctx.Args().First(), level)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !ok {
		return cli.NewExitError("log level was not changed", 1)
	}
	fmt.Fprintln(ctx.App.Writer, "OK")
	return nil
}

func constant(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("missing constant name", 1)
	}
	if len(args) > 2 || (len(args) == 2 && ctx.Bool("reset")) {
		return cli.NewExitError("additional arguments given", 1)
	}
	var value int64
	if len(args) == 2 {
		var err error
		value, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("invalid constant value: %w", err), 1)
		}
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	var (
		res int64
		err error
	)
	switch {
	case ctx.Bool("reset"):
		res, err = c.ResetConstant(args[0])
	case len(args) == 2:
		res, err = c.SetConstant(args[0], value)
	default:
		res, err = c.Constant(args[0])
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, res)
	return nil
}

func minFee(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) > 1 {
		return cli.NewExitError("additional arguments given", 1)
	}
	var fee int64
	if len(args) == 1 {
		var err error
		fee, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil || fee < 0 {
			return cli.NewExitError(fmt.Sprintf("invalid fee %q", args[0]), 1)
		}
	}
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	var (
		res int64
		err error
	)
	if len(args) == 1 {
		res, err = c.SetMinFeePerByte(fee)
	} else {
		res, err = c.MinFeePerByte()
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%d Luna/byte (%s NIM/byte)\n", res, flags.FormatNIM(res))
	return nil
}
