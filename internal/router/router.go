// Package router decides which storefront view a path shows, or where the
// visitor is sent instead.
package router

import "strings"

// View names a storefront page.
type View string

const (
	ViewLogin    View = "login"
	ViewSignup   View = "signup"
	ViewCatalog  View = "catalog"
	ViewCart     View = "cart"
	ViewCheckout View = "checkout"
	ViewOrder    View = "order"
	ViewRate     View = "rate"
	ViewProfile  View = "profile"
)

// Path returns the URL path of the view.
func (v View) Path() string {
	return "/" + string(v)
}

type route struct {
	view       View
	protected  bool
	needsOrder bool
}

var routes = map[string]route{
	"/login":    {view: ViewLogin},
	"/signup":   {view: ViewSignup},
	"/catalog":  {view: ViewCatalog, protected: true},
	"/cart":     {view: ViewCart, protected: true},
	"/checkout": {view: ViewCheckout, protected: true},
	"/order":    {view: ViewOrder, protected: true, needsOrder: true},
	"/rate":     {view: ViewRate, protected: true},
	"/profile":  {view: ViewProfile, protected: true},
}

// State is what navigation depends on.
type State struct {
	Authenticated  bool
	HasActiveOrder bool
}

// Decision is the outcome of resolving a path: either a view to render or a
// path to redirect to.
type Decision struct {
	View     View
	Redirect string
}

// IsRedirect reports whether the visitor must be sent elsewhere.
func (d Decision) IsRedirect() bool {
	return d.Redirect != ""
}

// Resolve maps path to a view. Unknown paths go to the catalog, protected
// views need an identity and the order view needs an active order.
func Resolve(path string, st State) Decision {
	r, ok := routes[normalize(path)]
	if !ok {
		return Decision{Redirect: ViewCatalog.Path()}
	}
	if r.protected && !st.Authenticated {
		return Decision{Redirect: ViewLogin.Path()}
	}
	if r.needsOrder && !st.HasActiveOrder {
		return Decision{Redirect: ViewCatalog.Path()}
	}
	return Decision{View: r.view}
}

// IsProtected reports whether path is a view that requires an identity.
func IsProtected(path string) bool {
	return routes[normalize(path)].protected
}

func normalize(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}
