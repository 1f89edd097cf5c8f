package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nimiq-community/nimiq-go/cli/console"
	"github.com/nimiq-community/nimiq-go/cli/mining"
	"github.com/nimiq-community/nimiq-go/cli/node"
	"github.com/nimiq-community/nimiq-go/cli/query"
	"github.com/nimiq-community/nimiq-go/cli/wallet"
	"github.com/nimiq-community/nimiq-go/pkg/config"
	"github.com/urfave/cli"
)

// unknownVersion is reported when the version isn't set at build time.
const unknownVersion = "unknown"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "nimiq-cli\nVersion: %s\nGoVersion: %s\n",
		c.App.Version,
		runtime.Version(),
	)
}

// New creates a nimiq-cli instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "nimiq-cli"
	ctl.Version = config.Version
	if ctl.Version == "" {
		ctl.Version = unknownVersion
	}
	ctl.Usage = "Command line client for the Nimiq node JSON-RPC interface"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, node.NewCommands()...)
	ctl.Commands = append(ctl.Commands, query.NewCommands()...)
	ctl.Commands = append(ctl.Commands, mining.NewCommands()...)
	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	ctl.Commands = append(ctl.Commands, console.NewCommands()...)
	return ctl
}
