// Command xfercore is the CLI entrypoint for the transfer engine.
package main

import (
	"os"

	"github.com/quickbyte/xfercore/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
