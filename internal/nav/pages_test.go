package nav

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBlocksFromPages(t *testing.T) {
	pages := []Page{
		{ID: 5, Title: RenderedText{Rendered: ""}, Link: "/about", Type: "page"},
		{ID: 6, Title: RenderedText{Rendered: "Contact"}, Link: "/contact", Type: "page"},
	}

	got := BlocksFromPages(pages)
	want := []Block{
		{
			Name: BlockNavigationLink,
			Attributes: map[string]any{
				"type":          "page",
				"id":            5,
				"url":           "/about",
				"label":         NoTitleLabel,
				"opensInNewTab": false,
			},
			InnerBlocks: []Block{},
		},
		{
			Name: BlockNavigationLink,
			Attributes: map[string]any{
				"type":          "page",
				"id":            6,
				"url":           "/contact",
				"label":         "Contact",
				"opensInNewTab": false,
			},
			InnerBlocks: []Block{},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected blocks (-want +got):\n%s", diff)
	}
}

func TestBlocksFromPagesNilMeansNotLoaded(t *testing.T) {
	if got := BlocksFromPages(nil); got != nil {
		t.Fatalf("expected nil for nil input, got %v", got)
	}
	if got := BlocksFromPages([]Page{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice for zero pages, got %v", got)
	}
}
