package editor

import (
	"fmt"
)

// Mode is the state of one edit toggle
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText encodes the mode by name
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name
func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "viewing", "":
		*m = ModeViewing
	case "editing":
		*m = ModeEditing
	default:
		return fmt.Errorf("unknown edit mode %q", string(b))
	}
	return nil
}

// Toggle is a viewing/editing switch with its own scratch buffer
type Toggle struct {
	Mode   Mode   `json:"mode"`
	Buffer string `json:"buffer,omitempty"`
}

// Editing reports whether the toggle is open
func (t Toggle) Editing() bool {
	return t.Mode == ModeEditing
}

func (t *Toggle) begin(seed string) {
	t.Mode = ModeEditing
	t.Buffer = seed
}

func (t *Toggle) reset() {
	*t = Toggle{}
}

// ItemToggle edits one entry of a list field
type ItemToggle struct {
	Mode  Mode   `json:"mode"`
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
	Genre string `json:"genre,omitempty"`
}

// Editing reports whether an entry is open
func (t ItemToggle) Editing() bool {
	return t.Mode == ModeEditing
}

// EditingIndex reports whether entry i is the one being edited
func (t ItemToggle) EditingIndex(i int) bool {
	return t.Mode == ModeEditing && t.Index == i
}

func (t *ItemToggle) reset() {
	*t = ItemToggle{}
}

// AddForm is the append form of a list field
type AddForm struct {
	Mode  Mode   `json:"mode"`
	Name  string `json:"name,omitempty"`
	Genre string `json:"genre,omitempty"`
}

// Open reports whether the form is shown
func (f AddForm) Open() bool {
	return f.Mode == ModeEditing
}

func (f *AddForm) reset() {
	*f = AddForm{}
}
