// Command rentalctl operates the rental back office from the shell: seeding,
// sessions, applications, complaints, payments and dashboards.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(context.Background(), newCLI(os.Stdout, os.Stderr), os.Args[1:]))
}

func run(ctx context.Context, c *cli, args []string) int {
	cmd := newRootCmd(c)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if cerr := c.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(errWriter(c), "error:", err)
		return 1
	}
	return 0
}

func errWriter(c *cli) io.Writer {
	if c.stderr == nil {
		return io.Discard
	}
	return c.stderr
}
