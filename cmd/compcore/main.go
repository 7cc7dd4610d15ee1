// Command compcore is the CLI wrapper around the computational core: it
// loads a compstate directory, evaluates it, and prints schedule,
// standings, and award results as text or JSON.
//
// Usage:
//
//	compcore validate ./compstate
//	compcore state ./compstate --at 2020-01-02T10:00:00Z
//	compcore standings ./compstate --format json
//	compcore schedule ./compstate
package main

import (
	"fmt"
	"os"

	"github.com/compcore/compcore/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
