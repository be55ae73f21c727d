// Package tray renders the host state as a system tray menu
package tray

import (
	"fmt"
	"math"

	"github.com/genricoloni/lyrical/internal/domain"
	"github.com/muesli/reflow/truncate"
)

// maxLabelWidth is the widest a menu label may get, in terminal cells
const maxLabelWidth = 48

// ItemKind is the kind of a menu entry
type ItemKind int

const (
	Label ItemKind = iota
	Separator
	Checkbox
	Button
)

// Action is what clicking an item does
type Action int

const (
	NoAction Action = iota
	ToggleOverlay
	ToggleTranslation
	ToggleLock
	ShowMain
	Quit
)

// Item is one menu entry
type Item struct {
	Kind     ItemKind
	Label    string
	Checked  bool
	Disabled bool
	Action   Action
}

// MenuSpec is the whole tray menu
type MenuSpec struct {
	Tooltip string
	Items   []Item
}

// Equal reports whether two menus would render identically
func (m MenuSpec) Equal(o MenuSpec) bool {
	if m.Tooltip != o.Tooltip || len(m.Items) != len(o.Items) {
		return false
	}
	for i := range m.Items {
		if m.Items[i] != o.Items[i] {
			return false
		}
	}
	return true
}

// RenderMenu builds the menu for a host snapshot. It has no side effects.
func RenderMenu(snap domain.HostSnapshot) MenuSpec {
	song := snap.Song
	var items []Item

	if song.IsPlaying {
		items = append(items,
			label("Song: "+song.Title),
			label("Artist: "+song.Artist),
			label(fmt.Sprintf("Progress: %s / %s", formatTime(song.CurrentTime), formatTime(song.Duration))),
			Item{Kind: Separator},
		)
		if song.LyricText != "" {
			items = append(items, label("Lyric: "+song.LyricText))
		}
		if song.LyricTrans != "" {
			items = append(items, label("Translation: "+song.LyricTrans))
		}
		if song.LyricText != "" || song.LyricTrans != "" {
			items = append(items, Item{Kind: Separator})
		}
	} else {
		items = append(items,
			Item{Kind: Label, Label: "Not playing", Disabled: true},
			Item{Kind: Separator},
		)
	}

	items = append(items,
		Item{Kind: Checkbox, Label: "Show desktop lyrics", Checked: snap.OverlayVisible, Action: ToggleOverlay},
		Item{Kind: Checkbox, Label: "Show translation", Checked: snap.ShowTranslation, Action: ToggleTranslation},
		Item{Kind: Checkbox, Label: "Lock desktop lyrics", Checked: snap.Locked, Action: ToggleLock},
		Item{Kind: Separator},
		Item{Kind: Button, Label: "Open player", Action: ShowMain},
		Item{Kind: Button, Label: "Quit", Action: Quit},
	)

	tooltip := "lyrical"
	if song.IsPlaying && song.Title != "" {
		tooltip = truncate.StringWithTail(song.DisplayTitle(), maxLabelWidth, "…")
	}
	return MenuSpec{Tooltip: tooltip, Items: items}
}

func label(s string) Item {
	return Item{Kind: Label, Label: truncate.StringWithTail(s, maxLabelWidth, "…")}
}

// formatTime renders seconds as mm:ss
func formatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
