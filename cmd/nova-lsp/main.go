package main

import (
	"os"

	"github.com/spf13/pflag"
)

func main() {
	// --stdio is accepted (and is the only supported transport) for
	// compatibility with editor clients that always pass it when
	// launching an LSP server over standard input/output.
	flags := pflag.NewFlagSet("nova-lsp", pflag.ContinueOnError)
	flags.Bool("stdio", true, "communicate over stdio (the only supported transport)")
	_ = flags.Parse(os.Args[1:])

	NewServer(os.Stdout).Start()
}
