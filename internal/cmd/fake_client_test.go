package cmd

import (
	"context"

	"github.com/mossgarden/wpnav/internal/api"
	"github.com/mossgarden/wpnav/internal/nav"
)

type fakeClient struct {
	ListMenusFunc     func(ctx context.Context) ([]api.Menu, error)
	ListMenuItemsFunc func(ctx context.Context, menuID int) ([]nav.MenuItem, error)
	ListPagesFunc     func(ctx context.Context) ([]nav.Page, error)
	SiteFunc          func() string
}

func (f *fakeClient) ListMenus(ctx context.Context) ([]api.Menu, error) {
	if f.ListMenusFunc != nil {
		return f.ListMenusFunc(ctx)
	}
	return nil, nil
}

func (f *fakeClient) ListMenuItems(ctx context.Context, menuID int) ([]nav.MenuItem, error) {
	if f.ListMenuItemsFunc != nil {
		return f.ListMenuItemsFunc(ctx, menuID)
	}
	return nil, nil
}

func (f *fakeClient) ListPages(ctx context.Context) ([]nav.Page, error) {
	if f.ListPagesFunc != nil {
		return f.ListPagesFunc(ctx)
	}
	return nil, nil
}

func (f *fakeClient) Site() string {
	if f.SiteFunc != nil {
		return f.SiteFunc()
	}
	return "https://example.test"
}
