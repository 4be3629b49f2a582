package services

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat is returned when an export format is not recognised.
var ErrUnknownFormat = errors.New("unknown export format")

// ValidationError is a pre-export rule violation. Item is the 1-based item
// number the rule applies to, or 0 for bill-level rules.
type ValidationError struct {
	Item    int    `json:"item,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseError reports an uploaded workbook that could not be read.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse bill: %s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StorageError reports a failed read or write through the Store port.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
