package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"ndjson", FormatNDJSON, false},
		{"table", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestPrinterJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	if err := p.Print(context.Background(), map[string]int{"id": 5}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["id"] != 5 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestPrinterJSONWithQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".[].name")
	p := NewPrinter(&buf, FormatJSON)

	data := []map[string]string{{"name": "Primary"}, {"name": "Footer"}}
	if err := p.Print(ctx, data); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"Primary"`) || !strings.Contains(out, `"Footer"`) {
		t.Fatalf("query did not extract names: %q", out)
	}
}

func TestPrinterNDJSONEmitsOneLinePerElement(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatNDJSON)
	if err := p.Print(context.Background(), []int{1, 2, 3}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
}

func TestPrinterTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)
	table := Table{
		Headers: []string{"ID", "NAME"},
		Rows:    [][]string{{"2", "Primary"}, {"3", "Footer"}},
	}
	if err := p.Print(context.Background(), table); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "Primary") {
		t.Fatalf("unexpected table output: %q", out)
	}
}

func TestPrinterLimit(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLimit(context.Background(), 2)
	p := NewPrinter(&buf, FormatNDJSON)
	if err := p.Print(ctx, []int{1, 2, 3, 4}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected limit to keep 2 lines, got %d", len(lines))
	}
}

func TestPrinterYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)
	if err := p.Print(context.Background(), map[string]string{"site": "https://example.test"}); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.Contains(buf.String(), "site: https://example.test") {
		t.Fatalf("unexpected yaml: %q", buf.String())
	}
}
