package main

import (
	"os"

	fgctlcmd "github.com/emonxxx11/filegate/pkg/fgctl/cmd"
)

func main() {
	root := fgctlcmd.NewRootCommand(fgctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
