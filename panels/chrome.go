package panels

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/phanxgames/vrwidget"
)

// Layout of the stock chrome in dp. The browser sits 18 world units in front
// of the viewer and slightly below eye level at the default world DPI ratio.
const (
	BrowserWidth  = 720
	BrowserHeight = 450
	URLBarHeight  = 44
	MenuWidth     = 240

	urlBarGap = 12
	menuGap   = 8
)

var browserTranslation = mgl64.Vec3{0, -120, -720}

// Chrome is the browser view with its URL bar and, on demand, the overflow
// menu.
type Chrome struct {
	Browser *BrowserPanel
	URLBar  *URLBarPanel
	Menu    *MenuPanel

	// MenuItems are the rows OpenMenu shows.
	MenuItems []string
	// OnMenuSelect fires when a menu row is chosen.
	OnMenuSelect func(index int, item string)

	m *vrwidget.Manager
}

// NewChrome adds the browser and the URL bar to m. Tapping the URL bar opens
// the overflow menu.
func NewChrome(m *vrwidget.Manager, url string) (*Chrome, error) {
	c := &Chrome{
		MenuItems: []string{"New tab", "Bookmarks", "History", "Settings"},
		m:         m,
	}

	c.Browser = NewBrowserPanel(m)
	c.Browser.Navigate(url)
	if _, err := m.AddWidget(c.Browser, vrwidget.PlacementSpec{
		Parent:      vrwidget.InvalidHandle,
		Width:       BrowserWidth,
		Height:      BrowserHeight,
		Translation: browserTranslation,
		Anchor:      vrwidget.Vec2{X: 0.5, Y: 0.5},
	}); err != nil {
		return nil, fmt.Errorf("add browser: %w", err)
	}

	c.URLBar = NewURLBarPanel(m)
	c.URLBar.SetText(url)
	c.URLBar.OnActivate = func() {
		// Registration and bind failures are logged by the manager.
		_, _ = c.OpenMenu()
	}
	if _, err := m.AddWidget(c.URLBar, vrwidget.PlacementSpec{
		Parent:       vrwidget.HandleBrowser,
		Width:        BrowserWidth,
		Height:       URLBarHeight,
		Translation:  mgl64.Vec3{0, urlBarGap, 0},
		Anchor:       vrwidget.Vec2{X: 0.5, Y: 0},
		ParentAnchor: vrwidget.Vec2{X: 0.5, Y: 1},
	}); err != nil {
		m.Release(vrwidget.HandleBrowser)
		return nil, fmt.Errorf("add url bar: %w", err)
	}
	return c, nil
}

// MenuOpen reports whether the overflow menu is registered.
func (c *Chrome) MenuOpen() bool {
	if c.Menu == nil {
		return false
	}
	w, ok := c.m.Lookup(vrwidget.HandleMoreMenu)
	return ok && w == vrwidget.Widget(c.Menu)
}

// OpenMenu shows the overflow menu above the right end of the URL bar. It
// returns the open menu if there already is one.
func (c *Chrome) OpenMenu() (*MenuPanel, error) {
	if c.MenuOpen() {
		return c.Menu, nil
	}
	mp := NewMenuPanel(c.m, c.MenuItems...)
	mp.RowHeight = DefaultRowHeight * c.m.Config().Layout.DisplayDensity
	mp.OnSelect = func(i int, item string) {
		if c.OnMenuSelect != nil {
			c.OnMenuSelect(i, item)
		}
	}
	if _, err := c.m.AddWidget(mp, vrwidget.PlacementSpec{
		Parent:       vrwidget.HandleURLBar,
		Width:        MenuWidth,
		Height:       float64(len(c.MenuItems)) * DefaultRowHeight,
		Translation:  mgl64.Vec3{0, menuGap, 0},
		Anchor:       vrwidget.Vec2{X: 1, Y: 0},
		ParentAnchor: vrwidget.Vec2{X: 1, Y: 1},
	}); err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	c.Menu = mp
	return mp, nil
}

// Redraw repaints every live panel into its surface.
func (c *Chrome) Redraw() {
	c.Browser.Redraw()
	c.URLBar.Redraw()
	if c.MenuOpen() {
		c.Menu.Redraw()
	}
}
