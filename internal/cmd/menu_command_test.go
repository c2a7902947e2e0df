package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/nav"
	"github.com/mossgarden/wpnav/internal/output"
)

func TestMenuListStructured(t *testing.T) {
	fake := &fakeClient{
		ListMenusFunc: func(ctx context.Context) ([]api.Menu, error) {
			return []api.Menu{
				{ID: 2, Name: "Primary"},
				{ID: 5, Name: "Footer"},
			}, nil
		},
	}
	restoreClient := withTestClient(t, fake)
	defer restoreClient()

	out, _, restoreCtx := withTestContext(t, output.FormatJSON)
	defer restoreCtx()
	setCmdContext(menuListCmd)

	if err := menuListCmd.RunE(menuListCmd, []string{}); err != nil {
		t.Fatalf("menu list failed: %v", err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(parsed))
	}
	if parsed[0]["name"] != "Primary" {
		t.Fatalf("expected Primary first, got %v", parsed[0]["name"])
	}
}

func TestMenuListTextEmpty(t *testing.T) {
	fake := &fakeClient{
		ListMenusFunc: func(ctx context.Context) ([]api.Menu, error) {
			return []api.Menu{}, nil
		},
	}
	restoreClient := withTestClient(t, fake)
	defer restoreClient()

	out, _, restoreCtx := withTestContext(t, output.FormatText)
	defer restoreCtx()
	setCmdContext(menuListCmd)

	if err := menuListCmd.RunE(menuListCmd, []string{}); err != nil {
		t.Fatalf("menu list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No menus found.") {
		t.Fatalf("expected empty-state message, got: %s", out.String())
	}
}

func TestMenuItemsTree(t *testing.T) {
	fake := &fakeClient{
		ListMenuItemsFunc: func(ctx context.Context, menuID int) ([]nav.MenuItem, error) {
			if menuID != 2 {
				t.Fatalf("expected menu 2, got %d", menuID)
			}
			return []nav.MenuItem{
				{ID: 1, Title: nav.RenderedText{Rendered: "Home"}, URL: "https://example.test/"},
				{ID: 2, ParentID: 1, Title: nav.RenderedText{Rendered: "About"}, URL: "https://example.test/about"},
			}, nil
		},
	}
	restoreClient := withTestClient(t, fake)
	defer restoreClient()

	out, _, restoreCtx := withTestContext(t, output.FormatText)
	defer restoreCtx()
	setCmdContext(menuItemsCmd)

	if err := menuItemsCmd.Flags().Set("tree", "true"); err != nil {
		t.Fatalf("set flag failed: %v", err)
	}
	defer func() { _ = menuItemsCmd.Flags().Set("tree", "false") }()

	if err := menuItemsCmd.RunE(menuItemsCmd, []string{"2"}); err != nil {
		t.Fatalf("menu items failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "- Home (https://example.test/)") {
		t.Fatalf("expected root line, got: %s", text)
	}
	if !strings.Contains(text, "  - About (https://example.test/about)") {
		t.Fatalf("expected indented child line, got: %s", text)
	}
}

func TestMenuItemsInvalidID(t *testing.T) {
	restoreClient := withTestClient(t, &fakeClient{})
	defer restoreClient()

	_, _, restoreCtx := withTestContext(t, output.FormatText)
	defer restoreCtx()
	setCmdContext(menuItemsCmd)

	err := menuItemsCmd.RunE(menuItemsCmd, []string{"primary"})
	if err == nil || !strings.Contains(err.Error(), "invalid menu id") {
		t.Fatalf("expected invalid menu id error, got %v", err)
	}
}

func TestMenuItemsUntitledFallback(t *testing.T) {
	fake := &fakeClient{
		ListMenuItemsFunc: func(ctx context.Context, menuID int) ([]nav.MenuItem, error) {
			return []nav.MenuItem{
				{ID: 1, URL: "https://example.test/x"},
			}, nil
		},
	}
	restoreClient := withTestClient(t, fake)
	defer restoreClient()

	out, _, restoreCtx := withTestContext(t, output.FormatText)
	defer restoreCtx()
	setCmdContext(menuItemsCmd)

	if err := menuItemsCmd.RunE(menuItemsCmd, []string{"7"}); err != nil {
		t.Fatalf("menu items failed: %v", err)
	}
	if !strings.Contains(out.String(), nav.NoTitleLabel) {
		t.Fatalf("expected untitled fallback label, got: %s", out.String())
	}
}
