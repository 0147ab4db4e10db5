// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package errors provides a standard error definition for use in
// Sigil. Each error is assigned a class of error (kind) and an
// optional source position. Errors may be chained, and thus can be
// used to annotate upstream errors.
//
// Package errors provides functions Errorf and New as convenience
// constructors, so that users need import only one error package.
//
// The API was inspired by package upspin.io/errors.
package errors

import (
	"bytes"
	goerrors "errors"
	"fmt"
	"strings"
)

// Separator is inserted between chained errors while rendering. The
// default value (":\n\t") is intended for interactive tools.
var Separator = ":\n\t"

// Kind denotes the type of the error. The error's kind is used to
// render the error message and also for interpretation.
type Kind int

const (
	// Other denotes an unknown error.
	Other Kind = iota
	// Parse denotes a syntax error in Sigil source text.
	Parse
	// Invalid indicates invalid state or data.
	Invalid
	// NotExist denotes an error originating from a nonexistent
	// resource.
	NotExist
	// Fatal denotes an unrecoverable error.
	Fatal

	maxKind
)

// String renders a human-readable description of kind k.
func (k Kind) String() string {
	switch k {
	case Other:
		return "unknown error"
	case Parse:
		return "syntax error"
	case Invalid:
		return "invalid argument"
	case NotExist:
		return "resource does not exist"
	case Fatal:
		return "fatal error"
	}
	panic("unknown kind of error")
}

// Error defines a Sigil error. It is used to indicate an error
// associated with a source position and a kind. Errors may be
// chained.
type Error struct {
	// Kind is the class of the error.
	Kind Kind
	// Source is the source position associated with the error, as
	// rendered by Position.String, or "" if there is none.
	Source string
	// Message is the error's message.
	Message string
	// Err is this error's chained error, if any.
	Err error
}

// E is used to construct errors. E constructs errors from a set of
// arguments; each of which must be one of the following types:
//
//	errors.Kind        the error's kind
//	fmt.Stringer       the error's source position
//	string             the error's message; multiple strings are
//	                   separated by a space
//	error              the error's chained error
//
// If the chained error is of type *Error and no kind argument is
// given, the kind is lifted from the chain.
func E(args ...interface{}) error {
	if len(args) == 0 {
		panic("no args")
	}
	e := new(Error)
	kinded := false
	var msgs []string
	for _, arg := range args {
		switch arg := arg.(type) {
		case Kind:
			e.Kind = arg
			kinded = true
		case *Error:
			e.Err = arg
		case error:
			e.Err = arg
		case fmt.Stringer:
			e.Source = arg.String()
		case string:
			msgs = append(msgs, arg)
		default:
			msgs = append(msgs, fmt.Sprint(arg))
		}
	}
	e.Message = strings.Join(msgs, " ")
	if !kinded {
		if prev, ok := e.Err.(*Error); ok {
			e.Kind = prev.Kind
		}
	}
	return e
}

// Error renders the error: its position, its message (or its kind
// when the message is empty), and its chain.
func (e *Error) Error() string {
	var b bytes.Buffer
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		b.WriteString(Separator)
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the chained error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Recover returns err as an *Error, promoting non-Error errors as
// needed.
func Recover(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: Other, Message: err.Error()}
}

// Is tells whether err's kind is the provided kind.
func Is(kind Kind, err error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	if e.Kind != Other {
		return e.Kind == kind
	}
	if e.Err != nil {
		return Is(kind, e.Err)
	}
	return false
}

// New is synonymous with errors.New from the standard library, and
// is provided here for convenience.
func New(msg string) error { return goerrors.New(msg) }

// Errorf is synonymous with fmt.Errorf from the standard library,
// and is provided here for convenience.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
