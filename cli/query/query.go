package query

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nimiq-community/nimiq-go/cli/cmdargs"
	"github.com/nimiq-community/nimiq-go/cli/flags"
	"github.com/nimiq-community/nimiq-go/cli/options"
	"github.com/nimiq-community/nimiq-go/pkg/nimiqrpc/result"
	"github.com/nimiq-community/nimiq-go/pkg/rpcclient"
	"github.com/urfave/cli"
)

// NewCommands returns 'query' command.
func NewCommands() []cli.Command {
	rpcFlags := append([]cli.Flag{options.ConfigFile, options.Debug}, options.RPC...)
	fullFlag := cli.BoolFlag{
		Name:  "full, f",
		Usage: "Output full transactions instead of hashes",
	}
	queryBlockFlags := append([]cli.Flag{fullFlag}, rpcFlags...)
	queryTxFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "block, b",
			Usage: "Block number or hash to get transaction from (by index)",
		},
		cli.IntFlag{
			Name:  "index, i",
			Usage: "Transaction index in the block given by --block",
		},
	}, rpcFlags...)
	queryTransactionsFlags := append([]cli.Flag{
		cli.IntFlag{
			Name:  "limit, l",
			Value: rpcclient.DefaultTransactionsLimit,
			Usage: "Maximum number of transactions to return",
		},
	}, rpcFlags...)
	queryMempoolFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "content, c",
			Usage: "Output mempool transactions instead of the summary",
		},
		fullFlag,
	}, rpcFlags...)
	return []cli.Command{{
		Name:  "query",
		Usage: "Query chain and mempool data",
		Subcommands: []cli.Command{
			{
				Name:   "height",
				Usage:  "Print the height of the chain head",
				Action: queryHeight,
				Flags:  rpcFlags,
			},
			{
				Name:      "block",
				Usage:     "Query block by number or hash",
				UsageText: "nimiq-cli query block [--full] <number|hash>",
				Action:    queryBlock,
				Flags:     queryBlockFlags,
			},
			{
				Name:      "block-tx-count",
				Usage:     "Print the number of transactions in a block",
				UsageText: "nimiq-cli query block-tx-count <number|hash>",
				Action:    queryBlockTxCount,
				Flags:     rpcFlags,
			},
			{
				Name:      "tx",
				Usage:     "Query transaction by hash or by its position in a block",
				UsageText: "nimiq-cli query tx <hash>\n   nimiq-cli query tx --block <number|hash> --index <index>",
				Action:    queryTx,
				Flags:     queryTxFlags,
			},
			{
				Name:      "receipt",
				Usage:     "Query receipt of a mined transaction",
				UsageText: "nimiq-cli query receipt <hash>",
				Action:    queryReceipt,
				Flags:     rpcFlags,
			},
			{
				Name:      "account",
				Usage:     "Query account details",
				UsageText: "nimiq-cli query account <address>",
				Action:    queryAccount,
				Flags:     rpcFlags,
			},
			{
				Name:      "balance",
				Usage:     "Query account balance",
				UsageText: "nimiq-cli query balance <address>",
				Action:    queryBalance,
				Flags:     rpcFlags,
			},
			{
				Name:      "transactions",
				Usage:     "Query transactions of an address, newest first",
				UsageText: "nimiq-cli query transactions [--limit <n>] <address>",
				Action:    queryTransactions,
				Flags:     queryTransactionsFlags,
			},
			{
				Name:      "mempool",
				Usage:     "Query mempool summary or content",
				UsageText: "nimiq-cli query mempool [--content [--full]]",
				Action:    queryMempool,
				Flags:     queryMempoolFlags,
			},
			{
				Name:   "accounts",
				Usage:  "List accounts controlled by the node",
				Action: queryAccounts,
				Flags:  rpcFlags,
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

func queryHeight(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	h, err := c.BlockNumber()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, h)
	return nil
}

func queryBlock(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "block number or hash"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	var (
		arg  = ctx.Args().First()
		full = ctx.Bool("full")
		b    *result.Block
	)
	if height, ok := cmdargs.ParseHeightOrHash(arg); ok {
		b, err = c.GetBlockByNumber(height, full)
	} else {
		b, err = c.GetBlockByHash(arg, full)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if b == nil {
		return cli.NewExitError(fmt.Sprintf("block %s not found", arg), 1)
	}
	dumpBlock(ctx.App.Writer, b)
	return nil
}

func dumpBlock(out io.Writer, b *result.Block) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Number:\t%d\n", b.Number)
	fmt.Fprintf(w, "Hash:\t%s\n", b.Hash)
	fmt.Fprintf(w, "PoW:\t%s\n", b.PoW)
	fmt.Fprintf(w, "Parent:\t%s\n", b.ParentHash)
	fmt.Fprintf(w, "Nonce:\t%d\n", b.Nonce)
	fmt.Fprintf(w, "Body hash:\t%s\n", b.BodyHash)
	fmt.Fprintf(w, "Accounts hash:\t%s\n", b.AccountsHash)
	fmt.Fprintf(w, "Difficulty:\t%s\n", b.Difficulty)
	fmt.Fprintf(w, "Timestamp:\t%d (%s)\n", b.Timestamp, formatTime(b.Timestamp))
	fmt.Fprintf(w, "Confirmations:\t%d\n", b.Confirmations)
	fmt.Fprintf(w, "Miner:\t%s\n", b.MinerAddress)
	fmt.Fprintf(w, "Extra data:\t%s\n", b.ExtraData)
	fmt.Fprintf(w, "Size:\t%d\n", b.Size)
	fmt.Fprintf(w, "Transactions:\t%d\n", len(b.Transactions))
	_ = w.Flush()
	for i := range b.Transactions {
		if tx := b.Transactions[i].Transaction; tx != nil {
			fmt.Fprintln(out)
			DumpTransaction(out, tx)
		} else {
			fmt.Fprintf(out, "  %s\n", b.Transactions[i].Hash)
		}
	}
}

func queryBlockTxCount(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "block number or hash"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	var (
		arg   = ctx.Args().First()
		n     int
		found bool
	)
	if height, ok := cmdargs.ParseHeightOrHash(arg); ok {
		n, found, err = c.GetBlockTransactionCountByNumber(height)
	} else {
		n, found, err = c.GetBlockTransactionCountByHash(arg)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if !found {
		return cli.NewExitError(fmt.Sprintf("block %s not found", arg), 1)
	}
	fmt.Fprintln(ctx.App.Writer, n)
	return nil
}

func queryTx(ctx *cli.Context) error {
	var (
		args  = ctx.Args()
		block = ctx.String("block")
	)
	switch {
	case block == "" && len(args) == 0:
		return cli.NewExitError("transaction hash is missing", 1)
	case block == "" && len(args) > 1, block != "" && len(args) > 0:
		return cli.NewExitError("additional arguments given", 1)
	case block == "" && ctx.IsSet("index"):
		return cli.NewExitError("--index requires --block", 1)
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	var tx *result.Transaction
	if block != "" {
		index := ctx.Int("index")
		if height, ok := cmdargs.ParseHeightOrHash(block); ok {
			tx, err = c.GetTransactionByBlockNumberAndIndex(height, index)
		} else {
			tx, err = c.GetTransactionByBlockHashAndIndex(block, index)
		}
	} else {
		tx, err = c.GetTransactionByHash(args.First())
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if tx == nil {
		return cli.NewExitError("transaction not found", 1)
	}
	DumpTransaction(ctx.App.Writer, tx)
	return nil
}

// DumpTransaction prints transaction details in a human-readable form.
func DumpTransaction(out io.Writer, tx *result.Transaction) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Hash:\t%s\n", tx.Hash)
	if tx.BlockHash != "" {
		fmt.Fprintf(w, "Block:\t%d (%s)\n", tx.BlockNumber, tx.BlockHash)
		fmt.Fprintf(w, "Index:\t%d\n", tx.TransactionIndex)
		fmt.Fprintf(w, "Timestamp:\t%d (%s)\n", tx.Timestamp, formatTime(tx.Timestamp))
		fmt.Fprintf(w, "Confirmations:\t%d\n", tx.Confirmations)
	} else {
		fmt.Fprintln(w, "Block:\tpending")
	}
	fmt.Fprintf(w, "From:\t%s\n", tx.FromAddress)
	fmt.Fprintf(w, "To:\t%s\n", tx.ToAddress)
	fmt.Fprintf(w, "Value:\t%s NIM\n", flags.FormatNIM(tx.Value))
	fmt.Fprintf(w, "Fee:\t%s NIM\n", flags.FormatNIM(tx.Fee))
	if tx.Data != "" {
		fmt.Fprintf(w, "Data:\t%s\n", tx.Data)
	}
	fmt.Fprintf(w, "Flags:\t%d\n", tx.Flags)
	_ = w.Flush()
}

func queryReceipt(ctx *cli.Context) error {
	if err := cmdargs.EnsureExactly(ctx, 1, "transaction hash"); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	r, err := c.GetTransactionReceipt(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if r == nil {
		return cli.NewExitError("receipt not found", 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Transaction:\t%s\n", r.TransactionHash)
	fmt.Fprintf(w, "Index:\t%d\n", r.TransactionIndex)
	fmt.Fprintf(w, "Block:\t%d (%s)\n", r.BlockNumber, r.BlockHash)
	fmt.Fprintf(w, "Timestamp:\t%d (%s)\n", r.Timestamp, formatTime(r.Timestamp))
	fmt.Fprintf(w, "Confirmations:\t%d\n", r.Confirmations)
	return w.Flush()
}

func getAddressArg(ctx *cli.Context) (string, error) {
	if err := cmdargs.EnsureExactly(ctx, 1, "address"); err != nil {
		return "", err
	}
	addr, err := flags.ParseAddress(ctx.Args().First())
	if err != nil {
		return "", cli.NewExitError(err, 1)
	}
	return addr, nil
}

func queryAccount(ctx *cli.Context) error {
	addr, err := getAddressArg(ctx)
	if err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	acc, err := c.GetAccount(addr)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	dumpAccount(ctx.App.Writer, acc)
	return nil
}

func dumpAccount(out io.Writer, acc *result.Account) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	common := acc.Common()
	fmt.Fprintf(w, "Address:\t%s\n", common.Address)
	fmt.Fprintf(w, "Type:\t%s\n", acc.Kind())
	fmt.Fprintf(w, "Balance:\t%s NIM\n", flags.FormatNIM(common.Balance))
	switch {
	case acc.Vesting != nil:
		v := acc.Vesting
		fmt.Fprintf(w, "Owner:\t%s\n", v.OwnerAddress)
		fmt.Fprintf(w, "Vesting start:\t%d\n", v.VestingStart)
		fmt.Fprintf(w, "Vesting step:\t%s NIM every %d blocks\n", flags.FormatNIM(v.VestingStepAmount), v.VestingStepBlocks)
		fmt.Fprintf(w, "Vesting total:\t%s NIM\n", flags.FormatNIM(v.VestingTotalAmount))
	case acc.HTLC != nil:
		h := acc.HTLC
		fmt.Fprintf(w, "Sender:\t%s\n", h.SenderAddress)
		fmt.Fprintf(w, "Recipient:\t%s\n", h.RecipientAddress)
		fmt.Fprintf(w, "Hash root:\t%s\n", h.HashRoot)
		fmt.Fprintf(w, "Hash algorithm:\t%d\n", h.HashAlgorithm)
		fmt.Fprintf(w, "Hash count:\t%d\n", h.HashCount)
		fmt.Fprintf(w, "Timeout:\t%d\n", h.Timeout)
		fmt.Fprintf(w, "Total amount:\t%s NIM\n", flags.FormatNIM(h.TotalAmount))
	}
	_ = w.Flush()
}

func queryBalance(ctx *cli.Context) error {
	addr, err := getAddressArg(ctx)
	if err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	balance, err := c.GetBalance(addr)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "%s NIM\n", flags.FormatNIM(balance))
	return nil
}

func queryTransactions(ctx *cli.Context) error {
	addr, err := getAddressArg(ctx)
	if err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	txs, err := c.GetTransactionsByAddress(addr, ctx.Int("limit"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HASH\tBLOCK\tFROM\tTO\tVALUE")
	for _, tx := range txs {
		block := "pending"
		if tx.BlockHash != "" {
			block = fmt.Sprint(tx.BlockNumber)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tx.Hash, block, tx.FromAddress, tx.ToAddress, flags.FormatNIM(tx.Value))
	}
	return w.Flush()
}

func queryMempool(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	if ctx.Bool("full") && !ctx.Bool("content") {
		return cli.NewExitError("--full requires --content", 1)
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	if ctx.Bool("content") {
		txs, err := c.MempoolContent(ctx.Bool("full"))
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		for i := range txs {
			if txs[i].Transaction != nil {
				DumpTransaction(ctx.App.Writer, txs[i].Transaction)
				fmt.Fprintln(ctx.App.Writer)
			} else {
				fmt.Fprintln(ctx.App.Writer, txs[i].Hash)
			}
		}
		return nil
	}

	info, err := c.Mempool()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total:\t%d\n", info.Total)
	for _, b := range info.Buckets {
		fmt.Fprintf(w, "Fee %d Luna/byte:\t%d\n", b, info.TransactionsPerBucket[b])
	}
	return w.Flush()
}

func queryAccounts(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	c, done, err := getClient(ctx)
	if err != nil {
		return err
	}
	defer done()

	accs, err := c.Accounts()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	w := tabwriter.NewWriter(ctx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tTYPE\tBALANCE")
	for i := range accs {
		common := accs[i].Common()
		fmt.Fprintf(w, "%s\t%s\t%s\n", common.Address, accs[i].Kind(), flags.FormatNIM(common.Balance))
	}
	return w.Flush()
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
