package pipeline

import (
	"fmt"
	"strings"
)

// Stage names a pipeline stage in errors and logs.
type Stage string

// Pipeline stages, in execution order.
const (
	StageLoad     Stage = "load"
	StageClean    Stage = "clean"
	StageReshape  Stage = "reshape"
	StageEnrich   Stage = "enrich"
	StageClassify Stage = "classify"
)

// LoadError reports a missing or malformed input file, column, or cell.
// Line and Column are zero/empty when the failure is not cell-specific.
type LoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s", e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReshapeError reports a month column header that matches no date layout.
type ReshapeError struct {
	Column string
	Index  int
	Err    error
}

func (e *ReshapeError) Error() string {
	return fmt.Sprintf("reshape column %d %q: %v", e.Index, e.Column, e.Err)
}

func (e *ReshapeError) Unwrap() error {
	return e.Err
}

// StageError wraps a fatal error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
