// Package placeholder drives the navigation creation flow: it loads the
// available sources (existing menus, existing pages, or nothing), tracks
// which one is selected, and hands the mapped block list to a creation
// callback exactly once.
package placeholder

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/nav"
)

// Kind discriminates the selectable creation sources.
type Kind string

const (
	// KindMenu converts an existing classic menu.
	KindMenu Kind = "menu"
	// KindEmpty starts from an empty block list.
	KindEmpty Kind = "empty"
	// KindAllPages links every top-level page.
	KindAllPages Kind = "all-pages"
)

// CreateOption is one selectable source. ID and Name are set for KindMenu;
// the two sentinel kinds carry only a display name.
type CreateOption struct {
	Kind Kind
	ID   int
	Name string
}

// OptionEmpty is the "start empty" sentinel.
var OptionEmpty = CreateOption{Kind: KindEmpty, Name: "Start empty"}

// OptionAllPages is the "add all pages" sentinel.
var OptionAllPages = CreateOption{Kind: KindAllPages, Name: "Add all pages"}

// State of the controller.
type State string

const (
	// StateLoading is the initial state, before menus and pages resolve.
	StateLoading State = "loading"
	// StateReady means sources are known and an option may be selected.
	StateReady State = "ready"
	// StateCreating means the creation callback is being invoked.
	StateCreating State = "creating"
	// StateDone means the callback has fired; the controller is spent.
	StateDone State = "done"
)

// CreateFunc receives the final block list. selectAfterInsert tells the
// consumer to focus the inserted blocks.
type CreateFunc func(blocks []nav.Block, selectAfterInsert bool)

// Controller is safe for concurrent use; all mutable state is guarded by one
// mutex and background fetches re-enter only through a current-selection
// check, so a stale menu-item fetch can never be attributed to a newer
// selection.
type Controller struct {
	client api.NavAPI
	parser nav.MarkupParser
	create CreateFunc

	mu       sync.Mutex
	state    State
	menus    []api.Menu
	pages    []nav.Page // nil until the page fetch resolves
	items    map[int][]nav.MenuItem
	itemErrs map[int]error
	pending  map[int]bool
	selected *CreateOption
	change   chan struct{}
}

// New builds a Controller. The parser may be nil, in which case block-type
// menu items always fall back to freeform blocks.
func New(client api.NavAPI, parser nav.MarkupParser, create CreateFunc) *Controller {
	return &Controller{
		client:   client,
		parser:   parser,
		create:   create,
		state:    StateLoading,
		items:    map[int][]nav.MenuItem{},
		itemErrs: map[int]error{},
		pending:  map[int]bool{},
		change:   make(chan struct{}),
	}
}

// Load fetches menus and pages concurrently, then moves to StateReady. If at
// least one real menu exists, the first becomes the default selection and
// its item fetch starts immediately.
func (c *Controller) Load(ctx context.Context) error {
	var (
		menus []api.Menu
		pages []nav.Page
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		menus, err = c.client.ListMenus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		pages, err = c.client.ListPages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.menus = menus
	c.pages = pages
	c.state = StateReady
	c.broadcast()
	c.mu.Unlock()

	if len(menus) > 0 {
		c.Select(CreateOption{Kind: KindMenu, ID: menus[0].ID, Name: menus[0].Name})
	}
	return nil
}

// Options returns the selectable sources: every real menu, then the two
// sentinels. Empty until StateReady.
func (c *Controller) Options() []CreateOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading {
		return nil
	}
	opts := make([]CreateOption, 0, len(c.menus)+2)
	for _, menu := range c.menus {
		opts = append(opts, CreateOption{Kind: KindMenu, ID: menu.ID, Name: menu.Name})
	}
	opts = append(opts, OptionEmpty, OptionAllPages)
	return opts
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Selected returns the current selection, or nil.
func (c *Controller) Selected() *CreateOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return nil
	}
	opt := *c.selected
	return &opt
}

// Select makes opt the current selection. Selecting a menu whose items have
// not been fetched starts a background fetch; results landing after the
// selection has moved on are cached but trigger no state change for the new
// selection. Re-selecting a menu whose fetch is already in flight reuses it.
func (c *Controller) Select(opt CreateOption) {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := opt
	c.selected = &selected
	c.broadcast()

	if opt.Kind != KindMenu {
		return
	}
	if _, resolved := c.items[opt.ID]; resolved {
		return
	}
	if c.pending[opt.ID] {
		// Reuse the in-flight fetch; its completion re-checks the selection.
		return
	}
	c.pending[opt.ID] = true
	delete(c.itemErrs, opt.ID)

	go c.fetchItems(opt.ID)
}

// fetchItems resolves one menu's items. The cache is always filled on
// success (a resolved list is valid for its menu regardless of timing), but
// an error is recorded only while its menu is still the current selection,
// so a superseded fetch can never fail a newer selection.
func (c *Controller) fetchItems(menuID int) {
	items, err := c.client.ListMenuItems(context.Background(), menuID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, menuID)

	if err != nil {
		if c.selected != nil && c.selected.Kind == KindMenu && c.selected.ID == menuID {
			c.itemErrs[menuID] = err
		}
		c.broadcast()
		return
	}
	c.items[menuID] = items
	c.broadcast()
}

// CanCreate reports whether Create may run: an option must be selected, and
// the data it depends on must have finished loading.
func (c *Controller) CanCreate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canCreateLocked()
}

func (c *Controller) canCreateLocked() bool {
	if c.state != StateReady || c.selected == nil {
		return false
	}
	switch c.selected.Kind {
	case KindEmpty:
		return true
	case KindAllPages:
		return c.pages != nil
	case KindMenu:
		_, resolved := c.items[c.selected.ID]
		return resolved
	default:
		return false
	}
}

// Err returns the fetch error for the current selection, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected != nil && c.selected.Kind == KindMenu {
		return c.itemErrs[c.selected.ID]
	}
	return nil
}

// WaitCreatable blocks until CanCreate would return true, the current
// selection's fetch fails, or the context ends.
func (c *Controller) WaitCreatable(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.selected != nil && c.selected.Kind == KindMenu {
			if err := c.itemErrs[c.selected.ID]; err != nil {
				c.mu.Unlock()
				return err
			}
		}
		if c.canCreateLocked() {
			c.mu.Unlock()
			return nil
		}
		wait := c.change
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
		}
	}
}

// Create maps the current selection to blocks and invokes the creation
// callback. It fires at most once: a second call, or a call while another is
// in flight, fails. The block list always belongs to the selection current
// at the moment of the call; results of superseded fetches are never used
// because the lookup is keyed by the selected menu's id.
func (c *Controller) Create() error {
	c.mu.Lock()
	if !c.canCreateLocked() {
		c.mu.Unlock()
		return fmt.Errorf("not ready to create (state %s)", c.state)
	}
	selected := *c.selected

	var blocks []nav.Block
	var selectAfter bool
	switch selected.Kind {
	case KindEmpty:
		blocks = []nav.Block{}
	case KindAllPages:
		blocks = nav.BlocksFromPages(c.pages)
		selectAfter = true
	case KindMenu:
		items := c.items[selected.ID]
		if len(items) == 0 {
			blocks = []nav.Block{}
		} else {
			blocks = nav.BlocksFromTree(nav.BuildTree(items), c.parser)
		}
		selectAfter = true
	}

	c.state = StateCreating
	c.broadcast()
	c.mu.Unlock()

	c.create(blocks, selectAfter)

	c.mu.Lock()
	c.state = StateDone
	c.broadcast()
	c.mu.Unlock()
	return nil
}

// broadcast wakes every waiter. Callers hold c.mu.
func (c *Controller) broadcast() {
	close(c.change)
	c.change = make(chan struct{})
}
