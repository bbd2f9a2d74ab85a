package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"studyplanner/internal/cli"
)

func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitUsageError)
	}

	os.Exit(cli.Run(context.Background(), inv, os.Stdin, os.Stdout, os.Stderr))
}
