package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError is an expected, user-caused precondition violation. Its
// message is safe to show verbatim to the requesting user and is always
// lowercase.
type DomainError struct {
	msg string
}

// NewDomainError creates a DomainError. The message is lowercased.
func NewDomainError(msg string) *DomainError {
	return &DomainError{msg: strings.ToLower(msg)}
}

// Errorf creates a DomainError from a format string.
func Errorf(format string, args ...any) *DomainError {
	return NewDomainError(fmt.Sprintf(format, args...))
}

func (e *DomainError) Error() string { return e.msg }

// Is reports whether target is a DomainError with the same message, so
// sentinel values below work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.msg == e.msg
}

// CommandNotFoundError reports a keyword with no registered handler.
type CommandNotFoundError struct {
	// Name is the keyword without the parser sentinel.
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command '%s' does not exist.", e.Name)
}

// Workday precondition failures.
var (
	ErrUnfinishedWorkday  = NewDomainError("unfinished workday exists")
	ErrNoWorkday          = NewDomainError("no workday has been started")
	ErrBreakAfterEnd      = NewDomainError("cannot break that which is already ended")
	ErrAlreadyOnBreak     = NewDomainError("already in a break")
	ErrNoBreakToContinue  = NewDomainError("no break to continue from")
	ErrAlreadyEnded       = NewDomainError("already called it a day")
	ErrConcurrentWorkday  = NewDomainError("workday was changed by another command, try again")
	ErrCorruptWorkday     = errors.New("workday has no intervals")
	ErrNotRegistered      = NewDomainError("you are not registered in the database.")
	ErrPermissionDenied   = NewDomainError("permission denied.")
	ErrNeedSingleMention  = NewDomainError("need a single user mention.")
	ErrNoMentionsProvided = NewDomainError("no mentions provided.")
)

// ErrorKind tags the three error variants the dispatcher distinguishes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindDomain
	KindCommandNotFound
)

// Classify returns the variant of err. Wrapped errors are unwrapped with
// errors.As; anything that is neither a DomainError nor a
// CommandNotFoundError is internal.
func Classify(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return KindDomain
	}
	var notFound *CommandNotFoundError
	if errors.As(err, &notFound) {
		return KindCommandNotFound
	}
	return KindInternal
}
