package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCount is returned when a requested question count is outside [1, bank length].
	ErrInvalidCount = errors.New("invalid question count")
	// ErrInvalidTransition is returned when an operation is not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrMissingFeedback marks a wrong answer without an incorrect message.
	ErrMissingFeedback = errors.New("missing feedback for incorrect answer")
	// ErrInvalidQuestion marks a malformed question record.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrUnknownBank is returned for bank identifiers outside bank1, bank2 and allBanks.
	ErrUnknownBank = errors.New("unknown bank")
	// ErrUnknownAnswer is returned when a submitted answer is not one of the current options.
	ErrUnknownAnswer = errors.New("answer not found")
)

// InvalidCountError carries the rejected count and the allowed maximum.
type InvalidCountError struct {
	Requested int
	Max       int
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("Please enter a number between 1 and %d.", e.Max)
}

// Is makes errors.Is(err, ErrInvalidCount) match.
func (e *InvalidCountError) Is(target error) bool {
	return target == ErrInvalidCount
}

// TransitionError names the rejected operation and the phase it was called in.
type TransitionError struct {
	Op    string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s not allowed while %s", ErrInvalidTransition, e.Op, e.Phase)
}

// Is makes errors.Is(err, ErrInvalidTransition) match.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// UnknownBankError carries the rejected bank identifier.
type UnknownBankError struct {
	ID string
}

func (e *UnknownBankError) Error() string {
	return fmt.Sprintf("%s %q (expected bank1, bank2 or allBanks)", ErrUnknownBank, e.ID)
}

// Is makes errors.Is(err, ErrUnknownBank) match.
func (e *UnknownBankError) Is(target error) bool {
	return target == ErrUnknownBank
}
