package fakes

import (
	"fmt"
	"strconv"

	"github.com/systmms/sentry-setup/internal/prompt"
)

// UseDefault makes a scripted Select answer return whatever default the
// caller offered, mimicking an operator pressing enter.
const UseDefault = "\x00use-default"

// PromptCall records one prompt issued by the code under test
type PromptCall struct {
	Kind    string // confirm, input, secret, select
	Title   string
	Options []prompt.Option
	Default string
}

// ScriptPrompter replays canned answers in order and records every
// prompt it receives. Running out of answers fails the prompt, which
// keeps tests honest about how many questions a flow asks.
type ScriptPrompter struct {
	Confirms []bool
	Inputs   []string
	Secrets  []string
	Selects  []string

	Calls []PromptCall
}

func (p *ScriptPrompter) Confirm(title string, def bool) (bool, error) {
	p.record("confirm", title, nil, strconv.FormatBool(def))
	if len(p.Confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt: %s", title)
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *ScriptPrompter) Input(title, placeholder, def string) (string, error) {
	p.record("input", title, nil, def)
	if len(p.Inputs) == 0 {
		return "", fmt.Errorf("unexpected input prompt: %s", title)
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	if answer == UseDefault {
		return def, nil
	}
	return answer, nil
}

func (p *ScriptPrompter) SecretInput(title string) (string, error) {
	p.record("secret", title, nil, "")
	if len(p.Secrets) == 0 {
		return "", fmt.Errorf("unexpected secret prompt: %s", title)
	}
	answer := p.Secrets[0]
	p.Secrets = p.Secrets[1:]
	return answer, nil
}

func (p *ScriptPrompter) Select(title string, options []prompt.Option, def string) (string, error) {
	p.record("select", title, options, def)
	if len(p.Selects) == 0 {
		return "", fmt.Errorf("unexpected select prompt: %s", title)
	}
	answer := p.Selects[0]
	p.Selects = p.Selects[1:]
	if answer == UseDefault {
		return def, nil
	}
	return answer, nil
}

// CallCount returns how many prompts of the given kind were issued
func (p *ScriptPrompter) CallCount(kind string) int {
	count := 0
	for _, call := range p.Calls {
		if call.Kind == kind {
			count++
		}
	}
	return count
}

// LastCall returns the most recent prompt of the given kind, or nil
func (p *ScriptPrompter) LastCall(kind string) *PromptCall {
	for i := len(p.Calls) - 1; i >= 0; i-- {
		if p.Calls[i].Kind == kind {
			return &p.Calls[i]
		}
	}
	return nil
}

func (p *ScriptPrompter) record(kind, title string, options []prompt.Option, def string) {
	p.Calls = append(p.Calls, PromptCall{
		Kind:    kind,
		Title:   title,
		Options: options,
		Default: def,
	})
}

var _ prompt.Prompter = (*ScriptPrompter)(nil)
