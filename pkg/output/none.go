// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"io"
)

// NoneFormatter discards structured output; commands relying on it print
// human-readable text directly instead.
type NoneFormatter struct {
}

func (f *NoneFormatter) Kind() Format {
	return NoneFormat
}

func (f *NoneFormatter) Format(obj interface{}, writer io.Writer, opts interface{}) error {
	return nil
}

var _ Formatter = (*NoneFormatter)(nil)
