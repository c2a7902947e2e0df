package api

import (
	"context"

	"github.com/mossgarden/wpnav/internal/nav"
)

// Menu identifies one classic navigation menu.
type Menu struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NavAPI is the read surface the converter needs from a WordPress site.
// Commands depend on this interface so tests can substitute fakes.
//
// Every method fetches all records, following pagination internally; a
// returned slice is always fully resolved. An empty slice means the site
// really has zero records, never "not loaded yet" — that distinction is the
// caller's to track.
type NavAPI interface {
	// ListMenus returns all classic menus in site order.
	ListMenus(ctx context.Context) ([]Menu, error)

	// ListMenuItems returns the flat item list of one menu, ordered as
	// arranged in the menu editor.
	ListMenuItems(ctx context.Context, menuID int) ([]nav.MenuItem, error)

	// ListPages returns published top-level pages, ascending by id.
	ListPages(ctx context.Context) ([]nav.Page, error)

	// Site returns the base URL of the site this client talks to.
	Site() string
}
