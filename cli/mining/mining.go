/*
Package mining contains commands controlling the miner of the node, both solo
and pool mining.
*/
package mining

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nimiq-community/nimiq-go/cli/cmdargs"
	"github.com/nimiq-community/nimiq-go/cli/flags"
	"github.com/nimiq-community/nimiq-go/cli/options"
	"github.com/nimiq-community/nimiq-go/pkg/rpcclient"
	"github.com/urfave/cli"
)

// NewCommands returns 'mining' command.
func NewCommands() []cli.Command {
	rpcFlags := append([]cli.Flag{options.ConfigFile, options.Debug}, options.RPC...)
	workFlags := append([]cli.Flag{
		flags.AddressFlag{
			Name:  "address, a",
			Usage: "Address to receive the block reward (node miner address by default)",
		},
		cli.StringFlag{
			Name:  "extra-data, e",
			Usage: "Hex-encoded extra data to put into the block",
		},
	}, rpcFlags...)
	return []cli.Command{{
		Name:  "mining",
		Usage: "Control the miner of the node",
		Subcommands: []cli.Command{
			{
				Name:   "status",
				Usage:  "Print miner status",
				Action: status,
				Flags:  rpcFlags,
			},
			{
				Name:   "start",
				Usage:  "Start mining",
				Action: func(ctx *cli.Context) error { return setMining(ctx, true) },
				Flags:  rpcFlags,
			},
			{
				Name:   "stop",
				Usage:  "Stop mining",
				Action: func(ctx *cli.Context) error { return setMining(ctx, false) },
				Flags:  rpcFlags,
			},
			{
				Name:      "threads",
				Usage:     "Print or set the number of miner threads",
				UsageText: "nimiq-cli mining threads [<n>]",
				Action:    threads,
				Flags:     rpcFlags,
			},
			{
				Name:      "pool",
				Usage:     "Print or change the mining pool",
				UsageText: "nimiq-cli mining pool [<host:port>|on|off]",
				Description: `Without arguments prints the pool the node mines in. A pool address
   switches to pool mining with that pool, 'on' resumes pool mining with the
   last pool used and 'off' disables pool mining.`,
				Action: pool,
				Flags:  rpcFlags,
			},
			{
				Name:      "work",
				Usage:     "Print work instructions for an external miner",
				UsageText: "nimiq-cli mining work [--address <address>] [--extra-data <hex>]",
				Action:    work,
				Flags:     workFlags,
			},
			{
				Name:      "template",
				Usage:     "Print block template for an external miner",
				UsageText: "nimiq-cli mining template [--address <address>] [--extra-data <hex>]",
				Action:    template,
				Flags:     workFlags,
			},
			{
				Name:      "submit",
				Usage:     "Submit a mined block",
				UsageText: "nimiq-cli mining submit <hex-encoded block>",
				Action:    submit,
				Flags:     rpcFlags,
			},
		},
	}}
}

func getClient(ctx *cli.Context) (*rpcclient.Client, func(), error) {
	gctx, cancel := options.GetTimeoutContext(ctx)
	c, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		cancel()
		return nil, nil, exitErr
	}
	return c, func() { c.Close(); cancel() }, nil
}

func status(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	mining, err := c.Mining()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	hashrate, err := c.Hashrate()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	threads, err := c.MinerThreads()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	addr, err := c.MinerAddress()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	poolAddr, err := c.Pool()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Mining:\t%t\n", mining)
	fmt.Fprintf(w, "Hashrate:\t%.2f H/s\n", hashrate)
	fmt.Fprintf(w, "Threads:\t%d\n", threads)
	fmt.Fprintf(w, "Miner address:\t%s\n", addr)
	if poolAddr == "" {
		fmt.Fprintln(w, "Pool:\tnone")
		return w.Flush()
	}
	state, err := c.PoolConnectionState()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	balance, err := c.PoolConfirmedBalance()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(w, "Pool:\t%s (%s)\n", poolAddr, state)
	fmt.Fprintf(w, "Pool balance:\t%s NIM\n", flags.FormatNIM(balance))
	return w.Flush()
}

func setMining(ctx *cli.Context, enabled bool) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	mining, err := c.SetMining(enabled)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Mining: %t\n", mining)
	return nil
}

func threads(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) > 1 {
		return cli.NewExitError("additional arguments given", 1)
	}
	var n int
	if len(args) == 1 {
		var err error
		n, err = strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return cli.NewExitError(fmt.Sprintf("invalid number of threads %q", args[0]), 1)
		}
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	if len(args) == 1 {
		n, err = c.SetMinerThreads(n)
	} else {
		n, err = c.MinerThreads()
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, n)
	return nil
}

func pool(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) > 1 {
		return cli.NewExitError("additional arguments given", 1)
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	var res string
	switch {
	case len(args) == 0:
		res, err = c.Pool()
	case args[0] == "on":
		res, err = c.SetPoolMining(true)
	case args[0] == "off":
		res, err = c.SetPoolMining(false)
	default:
		res, err = c.SetPool(args[0])
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if res == "" {
		res = "none"
	}
	fmt.Fprintln(ctx.App.Writer, res)
	return nil
}

func work(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	res, err := c.GetWork(flags.AddressFromContext(ctx, "address"), ctx.String("extra-data"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return writeJSON(ctx, res)
}

func template(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	res, err := c.GetBlockTemplate(flags.AddressFromContext(ctx, "address"), ctx.String("extra-data"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return writeJSON(ctx, res)
}

func submit(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "block"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := c.SubmitBlock(ctx.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, "Block submitted")
	return nil
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}
