package cispumf_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/microdata-tools/cispumf/pkg/cispumf"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, cispumf.ExitSuccess},
		{"general error", errors.New("something went wrong"), cispumf.ExitGeneralError},
		{"usage error", fmt.Errorf("missing required argument: %w", cispumf.ErrUsage), cispumf.ExitUsageError},
		{"invalid config", cispumf.ErrInvalidConfig, cispumf.ExitConfigError},
		{"data dir missing", cispumf.ErrDataDirNotFound, cispumf.ExitDataDirMissing},
		{"parse failed", cispumf.ErrParse, cispumf.ExitParseError},
		{"schema mismatch", cispumf.ErrSchema, cispumf.ExitSchemaError},
		{"mixed years", cispumf.ErrMixedYears, cispumf.ExitSchemaError},
		{"connection failed", cispumf.ErrConnectionFailed, cispumf.ExitConnectionError},
		{"execution failed", cispumf.ErrExecutionFailed, cispumf.ExitExecutionFailed},
		{"wrapped parse error", fmt.Errorf("read survey2014.dta: %w", cispumf.ErrParse), cispumf.ExitParseError},
		{"connection refused pattern", errors.New("dial tcp: connection refused"), cispumf.ExitConnectionError},
		{"no such host pattern", errors.New("lookup dbhost: no such host"), cispumf.ExitConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cispumf.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
