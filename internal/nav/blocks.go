package nav

import "strings"

// NoTitleLabel is the label substituted when a menu item or page has no
// rendered title.
const NoTitleLabel = "(no title)"

// BlocksFromTree maps a menu-item forest to blocks, one block per node in
// the same order, recursing into children to populate InnerBlocks. Items of
// type "block" have their content parsed with parser; anything the parser
// cannot make sense of is preserved as a freeform block rather than dropped.
// All other items become navigation-link blocks. The transform is pure.
func BlocksFromTree(nodes []*TreeNode, parser MarkupParser) []Block {
	blocks := make([]Block, 0, len(nodes))
	for _, node := range nodes {
		blocks = append(blocks, blockFromNode(node, parser))
	}
	return blocks
}

func blockFromNode(node *TreeNode, parser MarkupParser) Block {
	inner := BlocksFromTree(node.Children, parser)

	if node.Type == ItemTypeBlock {
		return contentBlock(node.Content.Rendered, inner, parser)
	}

	attrs := newAttributes()
	attrs.set("label", labelOr(node.Title.Rendered))
	attrs.set("opensInNewTab", node.Target == "_blank")
	attrs.setIfPresent("url", node.URL)
	attrs.setIfPresent("description", node.Description)
	attrs.setIfPresent("rel", joinPresent(node.XFN))
	attrs.setIfPresent("className", joinPresent(node.Classes))
	return NewBlock(BlockNavigationLink, attrs.m, inner)
}

// contentBlock parses serialized markup into a block, falling back to a
// freeform block carrying the raw markup when parsing yields nothing.
func contentBlock(markup string, inner []Block, parser MarkupParser) Block {
	if parser != nil {
		if parsed := parser.Parse(markup); len(parsed) > 0 {
			block := parsed[0]
			if len(inner) > 0 {
				block.InnerBlocks = append(block.InnerBlocks, inner...)
			}
			return block
		}
	}
	return NewBlock(BlockFreeform, map[string]any{"content": markup}, inner)
}

func labelOr(title string) string {
	if title == "" {
		return NoTitleLabel
	}
	return title
}

// joinPresent space-joins the non-empty entries of tokens. Returns "" when
// nothing survives the filter, which setIfPresent then omits.
func joinPresent(tokens []string) string {
	present := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token != "" {
			present = append(present, token)
		}
	}
	return strings.Join(present, " ")
}

// attributes builds an attribute map where optional keys are only ever
// inserted with real values, never set to empty placeholders.
type attributes struct {
	m map[string]any
}

func newAttributes() attributes {
	return attributes{m: map[string]any{}}
}

func (a attributes) set(key string, value any) {
	a.m[key] = value
}

func (a attributes) setIfPresent(key, value string) {
	if value != "" {
		a.m[key] = value
	}
}
