package blockparse

import (
	"encoding/json"
	"strings"

	"github.com/mossgarden/wpnav/internal/nav"
)

// Serialize renders blocks back to comment-delimited markup. Freeform blocks
// emit their raw content without delimiters, matching how they were captured.
// Attribute maps serialize as JSON with sorted keys, so output is stable.
func Serialize(blocks []nav.Block) string {
	var sb strings.Builder
	for i, block := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		serializeBlock(&sb, block)
	}
	return sb.String()
}

func serializeBlock(sb *strings.Builder, block nav.Block) {
	if block.Name == nav.BlockFreeform {
		if content, ok := block.Attributes["content"].(string); ok {
			sb.WriteString(content)
		}
		return
	}

	name := strings.TrimPrefix(block.Name, "core/")
	attrs := serializeAttributes(block.Attributes)

	if len(block.InnerBlocks) == 0 {
		sb.WriteString("<!-- wp:" + name + attrs + " /-->")
		return
	}

	sb.WriteString("<!-- wp:" + name + attrs + " -->")
	for _, inner := range block.InnerBlocks {
		sb.WriteString("\n")
		serializeBlock(sb, inner)
	}
	sb.WriteString("\n<!-- /wp:" + name + " -->")
}

func serializeAttributes(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return ""
	}
	return " " + string(encoded)
}
