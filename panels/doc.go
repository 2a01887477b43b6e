// Package panels holds the stock browser panels built on vrwidget: the
// content view, the URL bar above it and the overflow menu. Each is a
// vrwidget.Widget of a reserved kind, so it always registers at its
// well-known handle.
package panels
