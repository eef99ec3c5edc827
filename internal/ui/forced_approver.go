package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

// replaceWarning is shown before a forced table replace.
const replaceWarning = `*** DANGER ***

The table '%s' will be DROPPED and RECREATED.
All rows currently in it will be permanently deleted.
`

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) cispumf.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, tableName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintf(a.output, replaceWarning, tableName)
	fmt.Fprintln(a.output)

	countdownSeconds := int(cispumf.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with table replace...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ cispumf.Approver = (*ForcedApprover)(nil)
