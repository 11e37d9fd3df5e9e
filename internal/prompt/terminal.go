package prompt

import (
	"github.com/charmbracelet/huh"
)

// Terminal implements Prompter with single-field huh forms
type Terminal struct{}

// NewTerminal creates a terminal-backed prompter
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Confirm asks a yes/no question
func (t *Terminal) Confirm(title string, def bool) (bool, error) {
	value := def
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value).
		Run()
	return value, err
}

// Input asks for a line of text
func (t *Terminal) Input(title, placeholder, def string) (string, error) {
	value := def
	err := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value).
		Run()
	return value, err
}

// SecretInput asks for a value with password echo
func (t *Terminal) SecretInput(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Run()
	return value, err
}

// Select asks for a single choice from the given options
func (t *Terminal) Select(title string, options []Option, def string) (string, error) {
	huhOptions := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		huhOptions = append(huhOptions, huh.NewOption(o.Label, o.Value))
	}

	// Pre-seeding the bound value selects the matching option
	value := def
	err := huh.NewSelect[string]().
		Title(title).
		Options(huhOptions...).
		Value(&value).
		Run()
	return value, err
}

var _ Prompter = (*Terminal)(nil)
