package model

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when pasted text holds no page identifiers.
var ErrNoInput = errors.New("please paste at least one URL or page label")

// ErrUnknownSelection matches any UnknownSelectionError via errors.Is.
var ErrUnknownSelection = errors.New("unknown selection")

// UnknownSelectionError reports a focus or detail identifier missing from the batch.
// Callers should only offer identifiers taken from the current batch.
type UnknownSelectionError struct {
	Identifier PageIdentifier
}

func (e *UnknownSelectionError) Error() string {
	return fmt.Sprintf("identifier %q is not in the current batch", string(e.Identifier))
}

// Is lets errors.Is match ErrUnknownSelection.
func (e *UnknownSelectionError) Is(target error) bool {
	return target == ErrUnknownSelection
}
