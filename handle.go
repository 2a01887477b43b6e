package vrwidget

import "strconv"

// Handle identifies one registered widget from registration to release.
// Valid handles are non-negative.
type Handle int

// InvalidHandle is held by widgets that are not registered.
const InvalidHandle Handle = -1

// Well-known handles for the reserved widget kinds.
const (
	HandleBrowser  Handle = 0
	HandleURLBar   Handle = 1
	HandleMoreMenu Handle = 2

	firstDynamicHandle Handle = 3
)

// Valid reports whether h could name a registered widget.
func (h Handle) Valid() bool {
	return h >= 0
}

func (h Handle) String() string {
	switch h {
	case InvalidHandle:
		return "#invalid"
	case HandleBrowser:
		return "#0(browser)"
	case HandleURLBar:
		return "#1(urlbar)"
	case HandleMoreMenu:
		return "#2(menu)"
	}
	return "#" + strconv.Itoa(int(h))
}

// Kind is the closed set of panel kinds. Reserved kinds always register at
// their well-known handle; KindDynamic widgets get a freshly allocated one.
type Kind uint8

const (
	KindDynamic  Kind = iota // any other panel; handle allocated on register
	KindBrowser              // the browser content view
	KindURLBar               // the URL bar above the browser
	KindMoreMenu             // the overflow menu
)

// ReservedHandle returns the well-known handle for k. The second result is
// false for KindDynamic.
func (k Kind) ReservedHandle() (Handle, bool) {
	switch k {
	case KindBrowser:
		return HandleBrowser, true
	case KindURLBar:
		return HandleURLBar, true
	case KindMoreMenu:
		return HandleMoreMenu, true
	}
	return InvalidHandle, false
}

func (k Kind) String() string {
	switch k {
	case KindDynamic:
		return "dynamic"
	case KindBrowser:
		return "browser"
	case KindURLBar:
		return "urlbar"
	case KindMoreMenu:
		return "menu"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}
