// Package irload loads compiled query plans from CUE (or JSON, which CUE
// subsumes) into the interpreter's in-memory form.
//
// The on-disk block and expression encoding is the same kind-discriminated
// map form that ir.EncodeBlock emits for fingerprinting, so a plan file and
// its fingerprint describe the same bytes.
package irload

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/graphwalk/internal/interpreter"
	"github.com/roach88/graphwalk/internal/ir"
)

// LoadPlan reads and parses a plan file.
func LoadPlan(path string) (*interpreter.IRAndMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return ParsePlan(data, path)
}

// ParsePlan parses plan CUE from a byte slice. The filename is used only for
// error positions.
//
// A plan document is a struct with the fields blocks, locations, and
// optionally outputs, tags, filters, recurses, and inputs. It may appear at
// the top level or nested under a "plan" field.
func ParsePlan(data []byte, filename string) (*interpreter.IRAndMetadata, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	if nested := v.LookupPath(cue.ParsePath("plan")); nested.Exists() {
		v = nested
	}

	blocks, err := decodeBlocks(v.LookupPath(cue.ParsePath("blocks")))
	if err != nil {
		return nil, err
	}
	if _, _, err := ir.SplitBlocks(blocks); err != nil {
		return nil, &CompileError{Field: "blocks", Message: err.Error(), Pos: v.Pos()}
	}

	metadata, err := decodeMetadata(v)
	if err != nil {
		return nil, err
	}

	inputs, err := decodeInputs(v.LookupPath(cue.ParsePath("inputs")))
	if err != nil {
		return nil, err
	}

	return &interpreter.IRAndMetadata{
		Blocks:        blocks,
		Metadata:      metadata,
		InputMetadata: inputs,
	}, nil
}

// CompileError represents a plan loading error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

// decodeInputs parses the expected-argument table: a struct mapping argument
// names to type names.
func decodeInputs(v cue.Value) (map[string]string, error) {
	inputs := make(map[string]string)
	if !v.Exists() {
		return inputs, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		typeName, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		inputs[iter.Label()] = typeName
	}
	return inputs, nil
}
