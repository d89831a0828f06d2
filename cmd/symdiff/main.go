// Command symdiff differentiates expressions read in their sexpr text form.
//
// Usage:
//
//	symdiff -var x [-order n] [-config file] [-format sexpr|latex] [-dot dir]
//	        [-store db.sqlite] [-telemetry] [file ...]
//	symdiff -store db.sqlite -list
//
// Each input file holds one expression. Inputs are derived concurrently and
// printed in the order given; with no files the expression is read from
// stdin. For an input named f the output lists f, f', f'' and so on.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "symdiff:", err)
		os.Exit(1)
	}
}
