package network

import (
	"errors"

	"github.com/gravitas-games/hexgeo/internal/query"
	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// ErrorCode maps an operation error onto a protocol error code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, hex.ErrOverflow):
		return ErrCodeOverflow
	case errors.Is(err, hex.ErrDomain):
		return ErrCodeDomain
	case errors.Is(err, hex.ErrFormat):
		return ErrCodeFormat
	case errors.Is(err, query.ErrLimit):
		return ErrCodeLimit
	default:
		return ErrCodeInvalidRequest
	}
}
