package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/microdata-tools/cispumf/internal/cli"
	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cispumf.ExitPanic)
		}
	}()

	if os.Getenv("CISPUMF_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(cispumf.ExitCodeForError(err))
	}
}
