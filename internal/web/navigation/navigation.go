// Package navigation builds the sidebar and breadcrumbs of the signed in pages.
package navigation

// Pages of the dashboard sidebar.
const (
	PageDashboard  = "dashboard"
	PageOnboarding = "onboarding"
	PageSettings   = "settings"
	PageCalendar   = "calendar"
	PageBilling    = "billing"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one sidebar entry.
type MenuItem struct {
	Page   string
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActivePage  string
	Breadcrumbs []BreadcrumbItem
	Menu        []MenuItem
	PageTitle   string
}

var menu = []MenuItem{
	{Page: PageDashboard, Title: "Dashboard", URL: "/dashboard"},
	{Page: PageSettings, Title: "Voice Assistant", URL: "/settings"},
	{Page: PageCalendar, Title: "Calendar", URL: "/settings#calendar"},
	{Page: PageBilling, Title: "Billing", URL: "/#pricing"},
}

// NewContext creates a navigation context with the sidebar marked for activePage
// and a Home breadcrumb.
func NewContext(pageTitle, activePage string) *Context {
	items := make([]MenuItem, len(menu))
	for i, m := range menu {
		m.Active = m.Page == activePage
		items[i] = m
	}

	c := &Context{
		PageTitle:   pageTitle,
		ActivePage:  activePage,
		Breadcrumbs: make([]BreadcrumbItem, 0, 2), //nolint:mnd
		Menu:        items,
	}

	return c.AddBreadcrumb("Home", "/dashboard", activePage == PageDashboard)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if page is the current page.
func (c *Context) IsActive(page string) bool {
	return c.ActivePage == page
}
