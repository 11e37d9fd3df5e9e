package prompt

import (
	sserrors "github.com/systmms/sentry-setup/internal/errors"
)

// Option is one entry of a single-choice list. Label is what the
// operator sees; Value is what the caller gets back, so selection
// results never depend on display text.
type Option struct {
	Label string
	Value string
}

// Prompter is the console abstraction the resolver talks to. Every
// method blocks until the operator answers.
type Prompter interface {
	// Confirm asks a yes/no question with the given default.
	Confirm(title string, def bool) (bool, error)

	// Input asks for a free-form line of text with the given default.
	Input(title, placeholder, def string) (string, error)

	// SecretInput asks for a value without echoing it.
	SecretInput(title string) (string, error)

	// Select asks for a single choice. def, when it matches an
	// option value, pre-selects that option.
	Select(title string, options []Option, def string) (string, error)
}

// NonInteractive is a Prompter for --non-interactive runs: every prompt
// fails so callers degrade instead of hanging on a tty that isn't there.
type NonInteractive struct{}

func (NonInteractive) Confirm(title string, def bool) (bool, error) {
	return false, nonInteractiveError(title)
}

func (NonInteractive) Input(title, placeholder, def string) (string, error) {
	return "", nonInteractiveError(title)
}

func (NonInteractive) SecretInput(title string) (string, error) {
	return "", nonInteractiveError(title)
}

func (NonInteractive) Select(title string, options []Option, def string) (string, error) {
	return "", nonInteractiveError(title)
}

func nonInteractiveError(title string) error {
	return sserrors.UserError{
		Message:    "Interactive prompt required: " + title,
		Suggestion: "Run without --non-interactive, or run 'sentry-setup install' once on a terminal",
	}
}
