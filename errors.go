// errors.go
package simbridge

import (
	"fmt"

	"github.com/hdl-tools/simbridge/pkg/config"
	"github.com/hdl-tools/simbridge/pkg/matrix"
	"github.com/hdl-tools/simbridge/pkg/results"
	"github.com/hdl-tools/simbridge/pkg/runner"
	"github.com/hdl-tools/simbridge/pkg/toolchain"
)

// The error taxonomy, re-exported from the packages that produce each kind.
var (
	// ErrToolchainUnavailable indicates a missing simulator installation;
	// recoverable, the backend is skipped.
	ErrToolchainUnavailable = toolchain.ErrUnavailable

	// ErrConfiguration indicates a backend/configuration mismatch; fatal
	// before any subprocess is spawned.
	ErrConfiguration = config.ErrConfiguration

	// ErrBuildFailure indicates a failed bridge compilation; fatal for that
	// backend's matrix, siblings continue.
	ErrBuildFailure = matrix.ErrBuildFailure

	// ErrProcessFailure indicates a non-zero exit from a queued command;
	// fatal, the remaining queue is aborted.
	ErrProcessFailure = runner.ErrProcessFailure

	// ErrAbnormalTermination indicates a run that ended without writing its
	// results document.
	ErrAbnormalTermination = runner.ErrAbnormalTermination

	// ErrTestFailure indicates failing test cases in an otherwise
	// well-formed results document; reported, not a system fault.
	ErrTestFailure = results.ErrTestFailure
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Backend string // Backend name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Backend, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
