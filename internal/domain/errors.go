package domain

import "errors"

var (
	ErrMissingCredentials = errors.New("model credentials are not configured")
	ErrSessionClosed      = errors.New("session is closed")
	ErrTurnInProgress     = errors.New("a reply is still flowing")
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrEmptyJournalText   = errors.New("journal text is empty")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrUnknownMode        = errors.New("unknown mode")
	ErrNoSuggestion       = errors.New("no suggestion to accept")
	ErrWrongScreen        = errors.New("action is not available on this screen")
)
