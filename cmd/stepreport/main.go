package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `usage: stepreport <command> [flags]

commands:
  scaffold   generate step definitions for undefined feature steps
  publish    upload report artifacts to S3 compatible storage
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "scaffold":
		err = runScaffold(args[1:], stdout, stderr)
	case "publish":
		err = runPublish(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "stepreport %s: %s\n", args[0], err)
		return 1
	}
	return 0
}
