// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package ux wraps the interactive terminal building blocks the commands
// share: spinners for long operations and prompts for user input.
package ux

import (
	"time"

	"github.com/fatih/color"
	"github.com/theckman/yacspin"
)

// Spinner shows progress for one long-running operation.
type Spinner struct {
	spinner *yacspin.Spinner
}

// NewSpinner creates a spinner with the given prefix, e.g. "Submitting job".
func NewSpinner(prefix string) *Spinner {
	config := yacspin.Config{
		Frequency:         200 * time.Millisecond,
		CharSet:           yacspin.CharSets[33],
		Suffix:            " " + prefix,
		SuffixAutoColon:   true,
		StopCharacter:     "(✓) Done",
		StopColors:        []string{"fgGreen"},
		StopFailCharacter: "(x) Error",
		StopFailColors:    []string{"fgRed"},
	}

	spinner, _ := yacspin.New(config)

	return &Spinner{spinner: spinner}
}

func (s *Spinner) Start() {
	_ = s.spinner.Start()
}

// Message updates the in-progress text next to the animation.
func (s *Spinner) Message(message string) {
	s.spinner.Message(message)
}

func (s *Spinner) Stop() {
	_ = s.spinner.Stop()
}

// Fail stops the spinner with the failure character and message.
func (s *Spinner) Fail(message string) {
	s.spinner.StopFailMessage(message)
	_ = s.spinner.StopFail()
}

// WriteError stops any running animation and prints an error line.
func (s *Spinner) WriteError(format string, args ...interface{}) {
	if s.spinner.Status() != yacspin.SpinnerStopped {
		_ = s.spinner.StopFail()
	}

	color.Red("ERROR: "+format, args...)
}
