package view

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// HelpOverlay is a small window listing mouse and keyboard shortcuts.
type HelpOverlay interface {
	OpenOrFocus()
	Close()
}

type helpOverlay struct {
	win *ToplevelWidget
}

var shortcuts = [][2]string{
	{"Drag on empty area", "Draw a box with the selected label"},
	{"Drag a border", "Move the box"},
	{"Drag a corner", "Resize the box"},
	{"Delete", "Remove the hovered box"},
	{"Escape", "Cancel the current gesture"},
	{", / .", "Previous / next frame"},
	{"Ctrl+S", "Save project"},
}

// NewHelpOverlay creates a closed overlay.
func NewHelpOverlay() HelpOverlay { return &helpOverlay{} }

func (v *helpOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2))
	win.WmTitle("Shortcuts")
	v.win = win
	screenW, screenH := computeCenteredGeometry()
	w, h := 420, 40+26*len(shortcuts)
	WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", w, h, (int(screenW)-w)/2, (int(screenH)-h)/2))
	WmAttributes(win.Window, "-topmost", 1)
	for i, s := range shortcuts {
		key := win.Label(Txt(s[0]), Anchor("w"))
		Grid(key, Row(i), Column(0), Sticky("w"), Padx("1m"), Pady("0.2m"))
		desc := win.Label(Txt(s[1]), Anchor("w"))
		Grid(desc, Row(i), Column(1), Sticky("w"), Padx("1m"), Pady("0.2m"))
	}
	closeBtn := win.Button(Txt("Close [Esc]"), Command(v.Close))
	Grid(closeBtn, Row(len(shortcuts)), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.4m"))
	Bind(win, "<Return>", Command(v.Close))
	Bind(win, "<Escape>", Command(v.Close))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.Close)
}

func (v *helpOverlay) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// computeCenteredGeometry returns the screen width and height.
// Currently returns static values; should be replaced with proper Tk winfo queries.
func computeCenteredGeometry() (float64, float64) {
	return 1920, 1080
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y"
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// parseGeometry parses a Tk geometry string and returns the corresponding rectangle.
func parseGeometry(g string) (image.Rectangle, bool) {
	g = strings.TrimSpace(g)
	m := geomRe.FindStringSubmatch(g)
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
