// Package nav converts WordPress classic navigation menus and page lists
// into navigation block trees.
package nav

// Block type names produced by the mappers.
const (
	// BlockNavigationLink represents a single navigational link.
	BlockNavigationLink = "core/navigation-link"
	// BlockFreeform stores raw markup that could not be parsed into blocks.
	BlockFreeform = "core/freeform"
)

// ItemTypeBlock marks a menu item whose content is serialized block markup
// rather than a plain link.
const ItemTypeBlock = "block"

// RenderedText is the {"rendered": "..."} wrapper the REST API uses for
// user-editable text fields.
type RenderedText struct {
	Rendered string `json:"rendered"`
}

// MenuItem is one flat, parent-referencing entry of a classic menu, as
// returned by the menu-items endpoint. Items are read-only within a
// conversion pass.
type MenuItem struct {
	ID          int          `json:"id"`
	ParentID    int          `json:"parent"`
	Type        string       `json:"type"`
	Title       RenderedText `json:"title"`
	Content     RenderedText `json:"content"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
	Target      string       `json:"target"`
	XFN         []string     `json:"xfn"`
	Classes     []string     `json:"classes"`
}

// TreeNode is a MenuItem with its resolved children. Built by BuildTree,
// never persisted.
type TreeNode struct {
	MenuItem
	Children []*TreeNode
}

// Page is a published page record, filtered to top level by the fetch layer.
type Page struct {
	ID    int          `json:"id"`
	Title RenderedText `json:"title"`
	Type  string       `json:"type"`
	Link  string       `json:"link"`
}

// Block describes one content block: a type name, an attribute map, and
// nested child blocks. It is the output currency of every mapper here;
// what a block name means is up to the consumer.
type Block struct {
	Name        string         `json:"name"`
	Attributes  map[string]any `json:"attributes"`
	InnerBlocks []Block        `json:"innerBlocks"`
}

// NewBlock builds a Block from its parts. Inputs are echoed as-is; a nil
// attribute map becomes an empty one so callers can always index it.
func NewBlock(name string, attributes map[string]any, innerBlocks []Block) Block {
	if attributes == nil {
		attributes = map[string]any{}
	}
	if innerBlocks == nil {
		innerBlocks = []Block{}
	}
	return Block{Name: name, Attributes: attributes, InnerBlocks: innerBlocks}
}

// MarkupParser parses serialized block markup into blocks. An empty result
// means the markup contained no recognizable blocks; parsers never fail.
type MarkupParser interface {
	Parse(markup string) []Block
}
