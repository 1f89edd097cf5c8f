/*
Package console implements an interactive shell issuing arbitrary RPC calls to
the node.
*/
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/nimiq-community/nimiq-go/cli/cmdargs"
	"github.com/nimiq-community/nimiq-go/cli/options"
	"github.com/nimiq-community/nimiq-go/pkg/config"
	"github.com/nimiq-community/nimiq-go/pkg/rpcclient"
	"github.com/nimiq-community/nimiq-go/pkg/services/metrics"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	clientKey           = "client"
	exitFuncKey         = "exitFunc"
	readlineInstanceKey = "readlineKey"
)

// Prompt is the console prompt.
const Prompt = "nimiq> "

var commands = []cli.Command{
	{
		Name:        "exit",
		Usage:       "Exit the console",
		Description: "Exit the console",
		Action:      handleExit,
	},
	{
		Name:      "call",
		Usage:     "Call an RPC method",
		UsageText: `call <method> [<param>...]`,
		Description: `call <method> [<param>...]
<method> is mandatory, parameters are optional and are passed in the given order.
` + cmdargs.ParamsParsingDoc,
		Action: handleCall,
	},
	{
		Name:        "ping",
		Usage:       "Check that the node is reachable",
		Description: "Check that a TCP connection to the node can be established",
		Action:      handlePing,
	},
	{
		Name:        "endpoint",
		Usage:       "Print the node endpoint",
		Description: "Print the node endpoint",
		Action:      handleEndpoint,
	},
}

var completer *readline.PrefixCompleter

func init() {
	var pcItems []readline.PrefixCompleterInterface
	for _, c := range commands {
		if !c.Hidden {
			pcItems = append(pcItems, readline.PcItem(c.Name))
		}
	}
	completer = readline.NewPrefixCompleter(pcItems...)
}

// Various errors.
var (
	ErrMissingParameter = errors.New("missing argument")
)

// Console object for interacting with the node.
type Console struct {
	shell *cli.App
}

// NewCommands returns 'console' command.
func NewCommands() []cli.Command {
	rpcFlags := append([]cli.Flag{options.ConfigFile, options.Debug}, options.RPC...)
	return []cli.Command{{
		Name:  "console",
		Usage: "Start an interactive RPC console",
		Description: `Starts an interactive shell issuing RPC calls to the node, type 'help'
   to get the list of commands. The --timeout is applied to every call. If
   Prometheus is enabled in the configuration, RPC call metrics are exposed
   while the console is running.`,
		Action: startConsole,
		Flags:  rpcFlags,
	}}
}

func startConsole(ctx *cli.Context) error {
	if err := cmdargs.EnsureNone(ctx); err != nil {
		return err
	}
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg.ApplicationConfiguration)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() { _ = log.Sync() }()

	c, exitErr := options.GetRPCClient(context.Background(), ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	prometheus := startMetrics(cfg, log)
	defer prometheus.ShutDown()

	con, err := NewWithConfig(c, func(int) {}, &readline.Config{
		Prompt: Prompt,
		Stdout: ctx.App.Writer,
		Stderr: ctx.App.ErrWriter,
	})
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return con.Run()
}

func startMetrics(cfg config.Config, log *zap.Logger) *metrics.Service {
	srv := metrics.NewPrometheusService(cfg.ApplicationConfiguration.Prometheus, log)
	if err := srv.Start(); err != nil {
		log.Error("failed to start metrics service", zap.Error(err))
	}
	return srv
}

// NewWithConfig returns new Console instance using the given client and
// readline configuration. onExit is called by the 'exit' command.
func NewWithConfig(c *rpcclient.Client, onExit func(int), rc *readline.Config) (*Console, error) {
	if rc.AutoComplete == nil {
		// Autocomplete commands on TAB.
		rc.AutoComplete = completer
	}
	l, err := readline.NewEx(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to create readline instance: %w", err)
	}
	ctl := cli.NewApp()
	ctl.Name = "Nimiq console"

	// Note: need to set empty `ctl.HelpName` and `ctl.UsageText`, otherwise
	// `filepath.Base(os.Args[0])` will be used which is `nimiq-cli`.
	ctl.HelpName = ""
	ctl.UsageText = ""

	ctl.Writer = l.Stdout()
	ctl.ErrWriter = l.Stderr()
	ctl.Version = config.Version
	ctl.Usage = "Interactive Nimiq RPC console"

	// Override default error handler in order not to exit on error.
	ctl.ExitErrHandler = func(context *cli.Context, err error) {}

	ctl.Commands = commands
	ctl.Metadata = map[string]interface{}{
		clientKey:           c,
		exitFuncKey:         onExit,
		readlineInstanceKey: l,
	}
	return &Console{shell: ctl}, nil
}

func getClientFromContext(app *cli.App) *rpcclient.Client {
	return app.Metadata[clientKey].(*rpcclient.Client)
}

func getExitFuncFromContext(app *cli.App) func(int) {
	return app.Metadata[exitFuncKey].(func(int))
}

func getReadlineInstanceFromContext(app *cli.App) *readline.Instance {
	return app.Metadata[readlineInstanceKey].(*readline.Instance)
}

func handleExit(c *cli.Context) error {
	l := getReadlineInstanceFromContext(c.App)
	_ = l.Close()
	exit := getExitFuncFromContext(c.App)
	fmt.Fprintln(c.App.Writer, "Bye!")
	exit(0)
	return nil
}

func handleCall(c *cli.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return fmt.Errorf("%w: <method>", ErrMissingParameter)
	}
	_, params, err := cmdargs.ParseParams(args[1:], true)
	if err != nil {
		return err
	}
	res, err := getClientFromContext(c.App).Call(args[0], params...)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, formatResult(res))
	return nil
}

func formatResult(res json.RawMessage) string {
	if res == nil {
		return "null"
	}
	buf := new(bytes.Buffer)
	if err := json.Indent(buf, res, "", "  "); err != nil {
		return string(res)
	}
	return buf.String()
}

func handlePing(c *cli.Context) error {
	if err := getClientFromContext(c.App).Ping(); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "OK")
	return nil
}

func handleEndpoint(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, getClientFromContext(c.App).Endpoint())
	return nil
}

func writeErr(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}

// Run waits for user input from Stdin and executes the passed command.
func (c *Console) Run() error {
	l := getReadlineInstanceFromContext(c.shell)
	for {
		line, err := l.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil // OK, stop execution.
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err) // Critical error, stop execution.
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		args, err := shellquote.Split(line)
		if err != nil {
			writeErr(c.shell.ErrWriter, fmt.Errorf("failed to parse arguments: %w", err))
			continue // Not a critical error, continue execution.
		}

		err = c.shell.Run(append([]string{"console"}, args...))
		if err != nil {
			writeErr(c.shell.ErrWriter, err) // Various command/flags parsing errors and execution errors.
		}
	}
}
