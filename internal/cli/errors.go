package cli

import (
	"errors"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed
	ExitCommandError = 2 // Bad arguments: unparsable literal, negative radius, limit exceeded
)

// GetExitCode maps an error returned by a command onto a process exit code.
func GetExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, hex.ErrFormat), errors.Is(err, hex.ErrDomain), errors.Is(err, query.ErrLimit):
		return ExitCommandError
	default:
		return ExitFailure
	}
}
