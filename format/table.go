// Package format renders entities for the terminal.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/s0up4200/staffeli/entity"
)

// NewTable returns a rounded table writing to w. Footers keep their case.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

// Entities renders one row per entity with the given fields as columns.
// Missing fields are left blank.
func Entities(w io.Writer, list entity.List, fields ...string) {
	if len(fields) == 0 {
		fields = []string{"id", "name"}
	}

	t := NewTable(w)

	header := make(table.Row, 0, len(fields))
	for _, f := range fields {
		header = append(header, strings.ToUpper(strings.ReplaceAll(f, "_", " ")))
	}
	t.AppendHeader(header)

	for _, e := range list {
		row := make(table.Row, 0, len(fields))
		for _, f := range fields {
			row = append(row, Value(e[f]))
		}
		t.AppendRow(row)
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d total", len(list))})
	t.Render()
}

// Value renders a single field value.
func Value(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Value(item))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return name
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

// Heading returns "Title (n):" pluralising title when n is not 1.
func Heading(title string, n int) string {
	if n != 1 {
		title += "s"
	}
	return fmt.Sprintf("%s (%d):", title, n)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
