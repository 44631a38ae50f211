/*
 * errors.go, part of govacf.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vacf

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the failures of the library.
type ErrorKind int

const (
	IoFailure ErrorKind = iota + 1
	MalformedHeader
	MalformedAtomRecord
	UnexpectedEOF
	EmptyTrajectory
	ParticleCountMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case IoFailure:
		return "IoFailure"
	case MalformedHeader:
		return "MalformedHeader"
	case MalformedAtomRecord:
		return "MalformedAtomRecord"
	case UnexpectedEOF:
		return "UnexpectedEof"
	case EmptyTrajectory:
		return "EmptyTrajectory"
	case ParticleCountMismatch:
		return "ParticleCountMismatch"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels, to be used with errors.Is.
var (
	ErrIoFailure             = &Error{Kind: IoFailure}
	ErrMalformedHeader       = &Error{Kind: MalformedHeader}
	ErrMalformedAtomRecord   = &Error{Kind: MalformedAtomRecord}
	ErrUnexpectedEOF         = &Error{Kind: UnexpectedEOF}
	ErrEmptyTrajectory       = &Error{Kind: EmptyTrajectory}
	ErrParticleCountMismatch = &Error{Kind: ParticleCountMismatch}
)

// Error is the general error type of govacf. It fulfills TrajError.
// Line is 1-based, and 0 when the error is not tied to a line of input.
type Error struct {
	Kind     ErrorKind
	Message  string
	Filename string
	Line     int
	Context  string //text of the offending line, if any
	Err      error  //underlying cause, if any
	deco     []string
	critical bool
}

// NewError returns a critical error of the given kind, decorated with caller.
func NewError(kind ErrorKind, message, filename, caller string) *Error {
	err := &Error{Kind: kind, Message: message, Filename: filename, critical: true}
	err.Decorate(caller)
	return err
}

func (err *Error) Error() string {
	var b strings.Builder
	b.WriteString(err.Kind.String())
	if err.Filename != "" {
		b.WriteString(" in ")
		b.WriteString(err.Filename)
	}
	if err.Line > 0 {
		fmt.Fprintf(&b, " at line %d", err.Line)
	}
	if err.Message != "" {
		b.WriteString(": ")
		b.WriteString(err.Message)
	}
	if err.Context != "" {
		fmt.Fprintf(&b, " (%q)", err.Context)
	}
	if err.Err != nil {
		b.WriteString(": ")
		b.WriteString(err.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (err *Error) Unwrap() error { return err.Err }

// Is reports whether target is an *Error of the same kind. This
// makes the sentinels work with errors.Is.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == err.Kind
}

// Decorate adds the name of a caller to the error, and returns all the
// callers added so far. An empty string adds nothing.
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

func (err *Error) FileName() string { return err.Filename }

func (err *Error) Format() string { return "LAMMPS dump" }

func (err *Error) Critical() bool { return err.critical }

// lastFrameError implements LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NewLastFrameError returns the harmless error that signals the
// normal end of a trajectory.
func NewLastFrameError(filename, caller string) LastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "LAMMPS dump" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// ErrDecorate decorates err with caller if err implements Error,
// and returns it unchanged otherwise.
func ErrDecorate(err error, caller string) error {
	if err2, ok := err.(Decorator); ok {
		err2.Decorate(caller)
	}
	return err
}
