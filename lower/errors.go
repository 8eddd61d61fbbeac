package lower

import (
	"errors"
	"fmt"

	"github.com/bluesky-social/oapigen/schema"
)

var (
	ErrUnsupported  = errors.New("schema kind not supported")
	ErrInvalidName  = errors.New("name is not a valid identifier")
	ErrNoType       = errors.New("schema declares no type")
	ErrNoBranches   = errors.New("cannot synthesize a union from no branches")
	ErrNameMismatch = errors.New("union branches have different names")
	ErrDocMismatch  = errors.New("union branches have different doc comments")
)

// LoweringError aborts lowering of one schema. Category is zero when the failure is not tied to a
// specific category.
type LoweringError struct {
	Schema   string
	Category schema.Category
	Detail   string
	Err      error
}

func (e *LoweringError) Error() string {
	msg := fmt.Sprintf("lowering %q", e.Schema)
	if e.Category != 0 {
		msg += fmt.Sprintf(" (%s)", e.Category)
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LoweringError) Unwrap() error {
	return e.Err
}

// MergeError aborts synthesis of a union for one schema.
type MergeError struct {
	Schema string
	Detail string
	Err    error
}

func (e *MergeError) Error() string {
	msg := fmt.Sprintf("merging union %q: %s", e.Schema, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *MergeError) Unwrap() error {
	return e.Err
}
