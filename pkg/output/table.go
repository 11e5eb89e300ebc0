// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"text/tabwriter"
	"text/template"
)

// Column describes a single table column: its heading and a text/template
// expression evaluated against each row.
type Column struct {
	Heading       string
	ValueTemplate string
}

type TableFormatterOptions struct {
	Columns []Column
}

type TableFormatter struct {
}

func (f *TableFormatter) Kind() Format {
	return TableFormat
}

func (f *TableFormatter) Format(obj interface{}, writer io.Writer, opts interface{}) error {
	options, ok := opts.(TableFormatterOptions)
	if !ok {
		return fmt.Errorf("TableFormatter requires TableFormatterOptions")
	}

	if len(options.Columns) == 0 {
		return fmt.Errorf("no columns were defined, table formatting is not supported for this command")
	}

	rows, err := convertToSlice(obj)
	if err != nil {
		return err
	}

	headings := make([]string, 0, len(options.Columns))
	templates := make([]*template.Template, 0, len(options.Columns))
	for _, column := range options.Columns {
		headings = append(headings, column.Heading)

		tmpl, err := template.New(column.Heading).Parse(column.ValueTemplate)
		if err != nil {
			return fmt.Errorf("parsing template for column %s: %w", column.Heading, err)
		}
		templates = append(templates, tmpl)
	}

	tabs := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tabs, strings.Join(headings, "\t")); err != nil {
		return err
	}

	for _, row := range rows {
		values := make([]string, 0, len(templates))
		for _, tmpl := range templates {
			var sb strings.Builder
			if err := tmpl.Execute(&sb, row); err != nil {
				return err
			}
			values = append(values, sb.String())
		}

		if _, err := fmt.Fprintln(tabs, strings.Join(values, "\t")); err != nil {
			return err
		}
	}

	return tabs.Flush()
}

func convertToSlice(obj interface{}) ([]interface{}, error) {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice {
		return []interface{}{v.Interface()}, nil
	}

	rows := make([]interface{}, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		rows = append(rows, v.Index(i).Interface())
	}

	return rows, nil
}

var _ Formatter = (*TableFormatter)(nil)
