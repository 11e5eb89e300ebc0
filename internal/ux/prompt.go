// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package ux

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
)

// Asker asks a single survey question and stores the answer in response.
type Asker func(p survey.Prompt, response interface{}) error

// NewAsker returns an Asker. With noPrompt set, questions are never shown:
// prompts with defaults resolve to them and everything else fails, which
// keeps scripted runs deterministic.
func NewAsker(noPrompt bool, isTerminal bool, w io.Writer, r io.Reader) Asker {
	if noPrompt {
		return askOneNoPrompt
	}

	return func(p survey.Prompt, response interface{}) error {
		return askOnePrompt(p, response, isTerminal, w, r)
	}
}

func askOneNoPrompt(p survey.Prompt, response interface{}) error {
	switch v := p.(type) {
	case *survey.Input:
		if v.Default == "" {
			return fmt.Errorf("no default response for prompt '%s'", v.Message)
		}

		*(response.(*string)) = v.Default
	case *survey.Select:
		if v.Default == nil {
			return fmt.Errorf("no default response for prompt '%s'", v.Message)
		}

		switch ptr := response.(type) {
		case *int:
			didSet := false
			for idx, item := range v.Options {
				if v.Default.(string) == item {
					*ptr = idx
					didSet = true
				}
			}

			if !didSet {
				return fmt.Errorf("default response not in list of options for prompt '%s'", v.Message)
			}
		case *string:
			*ptr = v.Default.(string)
		default:
			return fmt.Errorf("bad type %T for result, should be (*int or *string)", response)
		}
	case *survey.Confirm:
		*(response.(*bool)) = v.Default
	default:
		return fmt.Errorf("don't know how to answer prompt of type %T without interaction", p)
	}

	return nil
}

func withShowCursor(o *survey.AskOptions) error {
	o.PromptConfig.ShowCursor = true
	return nil
}

func askOnePrompt(p survey.Prompt, response interface{}, isTerminal bool, stdout io.Writer, stdin io.Reader) error {
	if !isTerminal {
		// Off-terminal interaction cannot render survey's UI; treat it the
		// same as --no-prompt so pipes do not hang.
		return askOneNoPrompt(p, response)
	}

	opts := []survey.AskOpt{}

	// When asking a question which requires a text response, show the
	// cursor, it helps users understand we need some input.
	if _, ok := p.(*survey.Input); ok {
		opts = append(opts, withShowCursor)
	}

	opts = append(opts, survey.WithIcons(func(icons *survey.IconSet) {
		icons.Question.Format = "blue+b"
		icons.SelectFocus.Format = "blue+b"
	}))

	return survey.AskOne(p, response, opts...)
}
