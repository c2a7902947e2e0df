// Package blockparse reads and writes serialized block markup, the HTML
// comment grammar used to embed blocks in post content:
//
//	<!-- wp:namespace/name {"attr":"value"} -->inner<!-- /wp:namespace/name -->
//
// Blocks without inner content use the self-closing form
// `<!-- wp:name {...} /-->`. Names without a namespace default to "core/".
package blockparse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mossgarden/wpnav/internal/nav"
)

// delimiterRe matches one block comment delimiter. Groups: closer slash,
// namespace (with trailing slash), name, JSON attributes, void slash.
var delimiterRe = regexp.MustCompile(`(?s)<!--\s+(/)?wp:([a-z][a-z0-9_-]*/)?([a-z][a-z0-9_-]*)\s+(\{.*?\}\s+)?(/)?-->`)

// Parser turns serialized block markup into blocks. The zero value is ready
// to use; it implements nav.MarkupParser.
type Parser struct{}

// Parse extracts all top-level blocks from markup. Text outside block
// delimiters is skipped, and malformed markup degrades to an empty result
// rather than an error; callers treat "no blocks" as their fallback signal.
func (Parser) Parse(markup string) []nav.Block {
	type frame struct {
		block nav.Block
	}

	var out []nav.Block
	var stack []*frame

	emit := func(b nav.Block) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.block.InnerBlocks = append(top.block.InnerBlocks, b)
			return
		}
		out = append(out, b)
	}

	for _, match := range delimiterRe.FindAllStringSubmatch(markup, -1) {
		closer := match[1] == "/"
		name := qualifyName(match[2], match[3])
		void := match[5] == "/"

		if closer {
			// Close the innermost open block with this name; stray
			// closers are dropped.
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].block.Name != name {
					continue
				}
				// Auto-close anything left open inside it.
				for len(stack) > i+1 {
					inner := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					top := stack[len(stack)-1]
					top.block.InnerBlocks = append(top.block.InnerBlocks, inner.block)
				}
				closed := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				emit(closed.block)
				break
			}
			continue
		}

		block := nav.NewBlock(name, parseAttributes(match[4]), nil)
		if void {
			emit(block)
			continue
		}
		stack = append(stack, &frame{block: block})
	}

	// Unterminated blocks are auto-closed at end of input.
	for len(stack) > 0 {
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		emit(open.block)
	}

	return out
}

func qualifyName(namespace, name string) string {
	if namespace == "" {
		return "core/" + name
	}
	return namespace + name
}

// parseAttributes decodes the optional JSON attribute payload. Invalid JSON
// yields empty attributes; the block itself is still recognized.
func parseAttributes(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil
	}
	return attrs
}
