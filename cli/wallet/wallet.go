/*
Package wallet contains commands working with accounts controlled by the node:
account creation and value transfers.
*/
package wallet

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nimiq-community/nimiq-go/cli/cmdargs"
	"github.com/nimiq-community/nimiq-go/cli/flags"
	"github.com/nimiq-community/nimiq-go/cli/input"
	"github.com/nimiq-community/nimiq-go/cli/options"
	"github.com/nimiq-community/nimiq-go/cli/query"
	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc/result"
	"github.com/nimiq-community/nimiq-go/pkg/rpcclient"
	"github.com/nimiq-community/nimiq-go/pkg/rpcclient/waiter"
	"github.com/urfave/cli"
)

var errCancelled = errors.New("transaction was not sent")

var (
	fromFlag = flags.AddressFlag{
		Name:  "from",
		Usage: "Sender address (must be controlled by the node)",
	}
	toFlag = flags.AddressFlag{
		Name:  "to",
		Usage: "Recipient address",
	}
	valueFlag = flags.AmountFlag{
		Name:  "value, v",
		Usage: "Amount of NIM to transfer",
	}
	feeFlag = flags.AmountFlag{
		Name:  "fee",
		Usage: "Fee in NIM (zero by default)",
	}
	dataFlag = cli.StringFlag{
		Name:  "data",
		Usage: "Hex-encoded data to attach (extended transaction)",
	}
	fromTypeFlag = cli.StringFlag{
		Name:  "from-type",
		Value: result.BasicAccountType.String(),
		Usage: "Sender account type: basic, vesting or htlc",
	}
	toTypeFlag = cli.StringFlag{
		Name:  "to-type",
		Value: result.BasicAccountType.String(),
		Usage: "Recipient account type: basic, vesting or htlc",
	}
	forceFlag = cli.BoolFlag{
		Name:  "force",
		Usage: "Do not ask for a confirmation",
	}
	awaitFlag = cli.BoolFlag{
		Name:  "await",
		Usage: "Wait for the transaction to be mined",
	}
)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	rpcFlags := append([]cli.Flag{options.ConfigFile, options.Debug}, options.RPC...)
	txFlags := append(flags.MarkRequired([]cli.Flag{
		fromFlag,
		toFlag,
		valueFlag,
	}, "from", "to", "value, v"), feeFlag, dataFlag, fromTypeFlag, toTypeFlag)
	createTxFlags := append(txFlags, rpcFlags...)
	sendFlags := append(append([]cli.Flag{forceFlag, awaitFlag}, txFlags...), rpcFlags...)
	createAccountFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "private-key",
			Usage: "Print the private key of the new account",
		},
	}, rpcFlags...)
	return []cli.Command{{
		Name:  "wallet",
		Usage: "Create accounts and transfer value with the node wallet",
		Subcommands: []cli.Command{
			{
				Name:   "create-account",
				Usage:  "Create a new account in the node wallet",
				Action: createAccount,
				Flags:  createAccountFlags,
			},
			{
				Name:      "create-tx",
				Usage:     "Create and sign a transaction without sending it",
				UsageText: "nimiq-cli wallet create-tx --from <address> --to <address> --value <nim> [--fee <nim>] [--data <hex>]",
				Action:    createTx,
				Flags:     createTxFlags,
			},
			{
				Name:      "send",
				Usage:     "Create, sign and send a transaction",
				UsageText: "nimiq-cli wallet send [--force] [--await] --from <address> --to <address> --value <nim> [--fee <nim>] [--data <hex>]",
				Action:    send,
				Flags:     sendFlags,
			},
			{
				Name:      "send-raw",
				Usage:     "Send a signed hex-encoded transaction",
				UsageText: "nimiq-cli wallet send-raw [--await] <hex>",
				Action:    sendRaw,
				Flags:     append([]cli.Flag{awaitFlag}, rpcFlags...),
			},
			{
				Name:      "decode",
				Usage:     "Decode a signed hex-encoded transaction",
				UsageText: "nimiq-cli wallet decode <hex>",
				Action:    decode,
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

func createAccount(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	w, err := c.CreateAccount()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	tw := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Address:\t%s\n", w.Address)
	fmt.Fprintf(tw, "Public key:\t%s\n", w.PublicKey)
	if ctx.Bool("private-key") && w.PrivateKey != "" {
		fmt.Fprintf(tw, "Private key:\t%s\n", w.PrivateKey)
	}
	return tw.Flush()
}

func getOutgoingTransaction(ctx *cli.Context) (result.OutgoingTransaction, error) {
	var tx result.OutgoingTransaction
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return tx, err
	}
	fromType, err := result.ParseAccountType(ctx.String("from-type"))
	if err != nil {
		return tx, cli.NewExitError(err, 1)
	}
	toType, err := result.ParseAccountType(ctx.String("to-type"))
	if err != nil {
		return tx, cli.NewExitError(err, 1)
	}
	tx = result.OutgoingTransaction{
		From:     flags.AddressFromContext(ctx, "from"),
		FromType: fromType,
		To:       flags.AddressFromContext(ctx, "to"),
		ToType:   toType,
		Value:    flags.AmountFromContext(ctx, "value"),
		Fee:      flags.AmountFromContext(ctx, "fee"),
		Data:     ctx.String("data"),
	}
	if tx.Value <= 0 {
		return tx, cli.NewExitError("value must be positive", 1)
	}
	return tx, nil
}

func createTx(ctx *cli.Context) error {
	tx, err := getOutgoingTransaction(ctx)
	if err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	raw, err := c.CreateRawTransaction(tx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, raw)
	return nil
}

func send(ctx *cli.Context) error {
	tx, err := getOutgoingTransaction(ctx)
	if err != nil {
		return err
	}
	if !ctx.Bool("force") {
		prompt := fmt.Sprintf("Send %s NIM (fee %s NIM) from %s to %s? [y/N] > ",
			flags.FormatNIM(tx.Value), flags.FormatNIM(tx.Fee), tx.From, tx.To)
		answer, err := input.ReadLine(ctx.App.Writer, prompt)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			return cli.NewExitError(errCancelled, 1)
		}
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	hash, err := c.SendTransaction(tx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printSent(ctx, c, hash)
}

// printSent prints the hash of the sent transaction and, if requested, waits
// for it to be mined.
func printSent(ctx *cli.Context, c *rpcclient.Client, hash string) error {
	fmt.Fprintln(ctx.App.Writer, hash)
	if !ctx.Bool("await") {
		return nil
	}
	receipt, err := waiter.New(c).Wait(hash, nil)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to await transaction %s: %w", hash, err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Mined in block %d (%s)\n", receipt.BlockNumber, receipt.BlockHash)
	return nil
}

func sendRaw(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "transaction"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	hash, err := c.SendRawTransaction(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return printSent(ctx, c, hash)
}

func decode(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "transaction"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	tx, err := c.GetRawTransactionInfo(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	query.DumpTransaction(ctx.App.Writer, tx)
	return nil
}
