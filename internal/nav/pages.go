package nav

// BlocksFromPages maps a flat page list to navigation-link blocks, one per
// page, order preserved, no nesting. A nil input returns nil so callers can
// tell "pages not loaded yet" apart from "loaded, zero pages", which maps to
// an empty non-nil slice.
func BlocksFromPages(pages []Page) []Block {
	if pages == nil {
		return nil
	}
	blocks := make([]Block, 0, len(pages))
	for _, page := range pages {
		blocks = append(blocks, Block{
			Name: BlockNavigationLink,
			Attributes: map[string]any{
				"type":          page.Type,
				"id":            page.ID,
				"url":           page.Link,
				"label":         labelOr(page.Title.Rendered),
				"opensInNewTab": false,
			},
			InnerBlocks: []Block{},
		})
	}
	return blocks
}
