package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Table is a pre-rendered table for table output.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Printer renders values in a fixed format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer writing to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print outputs data in the configured format, honoring the jq query and
// result limit carried in ctx.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}
	data = applyLimit(data, LimitFromContext(ctx))

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data, true)
	case FormatNDJSON:
		return p.printJSON(ctx, data, false)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) printJSON(ctx context.Context, data interface{}, indent bool) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}

	query := QueryFromContext(ctx)
	if query == "" {
		if !indent {
			// ndjson emits one object per element for slices.
			if v := reflect.ValueOf(data); v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
				for i := 0; i < v.Len(); i++ {
					if err := enc.Encode(v.Index(i).Interface()); err != nil {
						return err
					}
				}
				return nil
			}
		}
		return enc.Encode(data)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	// gojq only accepts plain JSON values, so round-trip typed data first.
	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	iter := code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func (p *Printer) printTable(data interface{}) error {
	table, ok := data.(Table)
	if !ok {
		// Anything without an explicit table shape degrades to text.
		return p.printText(data)
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	if len(table.Headers) > 0 {
		fmt.Fprintln(tw, joinTab(table.Headers))
	}
	for _, row := range table.Rows {
		fmt.Fprintln(tw, joinTab(row))
	}
	return tw.Flush()
}

func (p *Printer) printText(data interface{}) error {
	if table, ok := data.(Table); ok {
		return p.printTable(table)
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if _, err := fmt.Fprintln(p.w, v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintln(p.w, v.Interface())
	return err
}

func joinTab(cells []string) string {
	out := ""
	for i, cell := range cells {
		if i > 0 {
			out += "\t"
		}
		out += cell
	}
	return out
}

// normalize round-trips data through JSON into plain maps and slices.
func normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var plain interface{}
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// applyLimit truncates slice data to at most limit elements. Zero means
// unlimited; non-slices pass through.
func applyLimit(data interface{}, limit int) interface{} {
	if limit <= 0 {
		return data
	}
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Len() <= limit {
		return data
	}
	return v.Slice(0, limit).Interface()
}
