package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/constraint"
)

// Engine errors.
var (
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNoSelection    = errors.New("no cell selected")
	ErrClipboardEmpty = errors.New("clipboard is empty")
	ErrNotLoaded      = errors.New("no period loaded")
)

// PersistenceError reports a repository failure. The in-memory store is left as
// it was before the operation.
type PersistenceError struct {
	Op  string
	IDs []string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persisting %d block(s): %v", e.Op, len(e.IDs), e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Result describes the outcome of a mutation.
// A rejected mutation carries a Violation and changes nothing.
type Result struct {
	Op        string
	Saved     []*block.Block
	Deleted   []string
	Violation *constraint.Violation

	// Dropped lists synthesized changeover blocks that were not placed.
	Dropped []*constraint.Violation
	// Skipped lists resize days that could not be filled.
	Skipped []*constraint.Violation

	Cancelled bool
}

// Rejected reports whether a constraint violation stopped the mutation.
func (r Result) Rejected() bool {
	return r.Violation != nil
}

// Changed reports whether the mutation committed anything.
func (r Result) Changed() bool {
	return len(r.Saved) > 0 || len(r.Deleted) > 0
}

// Summary returns a one-line description for status bars and CLI output.
func (r Result) Summary() string {
	switch {
	case r.Violation != nil:
		return r.Violation.Message()
	case r.Cancelled:
		return r.Op + " cancelled"
	case !r.Changed():
		return "nothing changed"
	}
	var parts []string
	if n := len(r.Saved); n > 0 {
		parts = append(parts, fmt.Sprintf("%d saved", n))
	}
	if n := len(r.Deleted); n > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", n))
	}
	if n := len(r.Skipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d day(s) skipped", n))
	}
	if n := len(r.Dropped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changeover block(s) dropped", n))
	}
	return r.Op + ": " + strings.Join(parts, ", ")
}
