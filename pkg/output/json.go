// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JsonFormatter renders a command result as indented JSON, the
// machine-readable counterpart of the table output. Formatting options are
// ignored; the result is emitted as-is.
type JsonFormatter struct{}

func (f *JsonFormatter) Kind() Format {
	return JsonFormat
}

func (f *JsonFormatter) Format(obj interface{}, writer io.Writer, _ interface{}) error {
	encoded, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result to JSON: %w", err)
	}

	_, err = writer.Write(append(encoded, '\n'))
	return err
}

var _ Formatter = (*JsonFormatter)(nil)
