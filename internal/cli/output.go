package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/gravitas-games/hexgeo/pkg/hex"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`         // "ok" or "error"
	Data   interface{} `json:"data,omitempty"` // success payload
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w}
}

// Success outputs data as JSON, or calls text for human-readable output.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Error outputs an error in JSON mode. In text mode the error is left to
// the caller.
func (f *OutputFormatter) Error(code string, err error) error {
	if f.Format != "json" {
		return err
	}
	if encErr := json.NewEncoder(f.Writer).Encode(CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: code, Message: err.Error()},
	}); encErr != nil {
		return encErr
	}
	return err
}

// Hexes writes a coordinate sequence, one canonical literal per line in
// text mode.
func (f *OutputFormatter) Hexes(seq iter.Seq[hex.Axial]) error {
	if f.Format == "json" {
		cells := []hex.Axial{}
		for a := range seq {
			cells = append(cells, a)
		}
		return f.Success(cells, nil)
	}
	for a := range seq {
		if _, err := fmt.Fprintln(f.Writer, a); err != nil {
			return err
		}
	}
	return nil
}
