// nimiq-cli is a command line client for the Nimiq node JSON-RPC interface.
package main

import (
	"fmt"
	"os"

	"github.com/nimiq-community/nimiq-go/cli/app"
)

func main() {
	ctl := app.New()

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintln(ctl.ErrWriter, err)
		os.Exit(1)
	}
}
