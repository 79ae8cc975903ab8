package game

import "errors"

var (
	// ErrInvalidTransition is returned for a phase change the state machine does not allow
	ErrInvalidTransition = errors.New("invalid phase transition")
	// ErrNotInPhase is returned when an action belongs to a phase that is not active
	ErrNotInPhase = errors.New("action not available in current phase")
	// ErrAlreadyAnswered is returned when an item is answered twice
	ErrAlreadyAnswered = errors.New("item already answered")
	// ErrNotAnswered is returned when advancing past an unanswered item
	ErrNotAnswered = errors.New("item not answered yet")
	// ErrUnknownEmail is returned for an inbox email id that does not exist
	ErrUnknownEmail = errors.New("unknown email")
	// ErrUnknownAction is returned for an inbox action outside open/delete/report
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnknownOption is returned for a lab answer that is not one of the options
	ErrUnknownOption = errors.New("unknown option")
	// ErrPhaseIncomplete is returned when leaving a phase with work left
	ErrPhaseIncomplete = errors.New("phase not complete")
	// ErrClosed is returned after the controller has been closed
	ErrClosed = errors.New("controller closed")
)
