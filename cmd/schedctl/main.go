package main

import (
	"os"

	schedctlcmd "github.com/skylift/schedctl/pkg/schedctl/cmd"
)

func main() {
	root := schedctlcmd.NewRootCommand(schedctlcmd.DefaultConfig())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
