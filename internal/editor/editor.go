// Package editor holds the working copy of one event and the edit toggles
// around it. Every commit swaps in a fresh clone of the record, so a record
// pointer handed out earlier never changes underneath its holder. Nothing
// here is written back upstream.
package editor

import (
	"errors"
	"strings"
	"time"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
)

var (
	ErrNotEditing      = errors.New("field is not being edited")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

const (
	dateLayout      = "2006-01-02"
	committedLayout = "2006-01-02T15:04:05.000Z"
)

// Editor owns one working copy
type Editor struct {
	record *domain.Event

	title       Toggle
	date        Toggle
	description Toggle
	artist      ItemToggle
	code        ItemToggle
	addArtist   AddForm
	addCode     AddForm
	lightbox    Lightbox
}

// New creates an editor over a copy of initial
func New(initial *domain.Event) *Editor {
	rec := initial.Clone()
	if rec == nil {
		rec = &domain.Event{}
	}
	return &Editor{record: rec, lightbox: NewLightbox()}
}

// Record returns the committed working copy. Callers must not modify it.
func (e *Editor) Record() *domain.Event {
	return e.record
}

// commit replaces the working copy with the result of fn applied to a clone
func (e *Editor) commit(fn func(r *domain.Event)) {
	next := e.record.Clone()
	fn(next)
	e.record = next
}

// Title returns the title toggle
func (e *Editor) Title() Toggle { return e.title }

// Date returns the date toggle
func (e *Editor) Date() Toggle { return e.date }

// Description returns the description toggle
func (e *Editor) Description() Toggle { return e.description }

// Artist returns the artist entry toggle
func (e *Editor) Artist() ItemToggle { return e.artist }

// Code returns the registry code entry toggle
func (e *Editor) Code() ItemToggle { return e.code }

// AddArtistForm returns the add-artist form
func (e *Editor) AddArtistForm() AddForm { return e.addArtist }

// AddCodeForm returns the add-code form
func (e *Editor) AddCodeForm() AddForm { return e.addCode }

// Lightbox returns the image viewer state
func (e *Editor) Lightbox() Lightbox { return e.lightbox }

// Title

func (e *Editor) BeginTitle() {
	e.title.begin(e.record.Name)
}

func (e *Editor) SetTitleDraft(s string) error {
	if !e.title.Editing() {
		return ErrNotEditing
	}
	e.title.Buffer = s
	return nil
}

func (e *Editor) SaveTitle() error {
	if !e.title.Editing() {
		return ErrNotEditing
	}
	name := e.title.Buffer
	e.commit(func(r *domain.Event) { r.Name = name })
	e.title.reset()
	return nil
}

func (e *Editor) CancelTitle() {
	e.title.reset()
}

// Date

// BeginDate seeds the buffer with the date part of Dates[0]
func (e *Editor) BeginDate() {
	seed := ""
	if d, ok := e.record.PrimaryDate(); ok {
		seed = dateOnly(d)
	}
	e.date.begin(seed)
}

func (e *Editor) SetDateDraft(s string) error {
	if !e.date.Editing() {
		return ErrNotEditing
	}
	e.date.Buffer = strings.TrimSpace(s)
	return nil
}

// SaveDate writes the buffer into Dates[0] as midnight UTC.
// An empty buffer stores an empty string. An invalid one keeps the toggle open.
func (e *Editor) SaveDate() error {
	if !e.date.Editing() {
		return ErrNotEditing
	}

	value := ""
	if e.date.Buffer != "" {
		t, err := time.Parse(dateLayout, e.date.Buffer)
		if err != nil {
			return ErrInvalidDate
		}
		value = t.UTC().Format(committedLayout)
	}

	e.commit(func(r *domain.Event) {
		if len(r.Dates) == 0 {
			r.Dates = []string{value}
			return
		}
		r.Dates[0] = value
	})
	e.date.reset()
	return nil
}

func (e *Editor) CancelDate() {
	e.date.reset()
}

// Description

func (e *Editor) BeginDescription() {
	e.description.begin(e.record.Description())
}

func (e *Editor) SetDescriptionDraft(s string) error {
	if !e.description.Editing() {
		return ErrNotEditing
	}
	e.description.Buffer = s
	return nil
}

func (e *Editor) SaveDescription() error {
	if !e.description.Editing() {
		return ErrNotEditing
	}
	text := e.description.Buffer
	e.commit(func(r *domain.Event) {
		if r.ExtraFields == nil {
			r.ExtraFields = map[string]any{}
		}
		r.ExtraFields[domain.DescriptionKey] = text
	})
	e.description.reset()
	return nil
}

func (e *Editor) CancelDescription() {
	e.description.reset()
}

// Artists

// BeginArtist opens entry i, replacing any entry already open
func (e *Editor) BeginArtist(i int) error {
	if i < 0 || i >= len(e.record.Artists) {
		return ErrIndexOutOfRange
	}
	a := e.record.Artists[i]
	e.artist = ItemToggle{Mode: ModeEditing, Index: i, Name: a.Name, Genre: a.Genre}
	return nil
}

func (e *Editor) SetArtistDraft(name, genre string) error {
	if !e.artist.Editing() {
		return ErrNotEditing
	}
	e.artist.Name = name
	e.artist.Genre = genre
	return nil
}

// SaveArtist replaces the open entry. If the entry was removed meanwhile the
// toggle just closes.
func (e *Editor) SaveArtist() error {
	if !e.artist.Editing() {
		return ErrNotEditing
	}
	t := e.artist
	e.artist.reset()

	if t.Index >= len(e.record.Artists) {
		return nil
	}
	e.commit(func(r *domain.Event) {
		a := r.Artists[t.Index]
		a.Name = t.Name
		if a.IsDetailed() {
			a.Genre = t.Genre
		}
		r.Artists[t.Index] = a
	})
	return nil
}

func (e *Editor) CancelArtist() {
	e.artist.reset()
}

func (e *Editor) OpenAddArtist() {
	e.addArtist = AddForm{Mode: ModeEditing}
}

func (e *Editor) SetNewArtistDraft(name, genre string) error {
	if !e.addArtist.Open() {
		return ErrNotEditing
	}
	e.addArtist.Name = name
	e.addArtist.Genre = genre
	return nil
}

// AddArtist appends the drafted artist. A blank name is a no-op that leaves
// the form open and returns false.
func (e *Editor) AddArtist() (bool, error) {
	if !e.addArtist.Open() {
		return false, ErrNotEditing
	}
	name := strings.TrimSpace(e.addArtist.Name)
	if name == "" {
		return false, nil
	}

	artist := domain.NewSimpleArtist(name)
	if genre := strings.TrimSpace(e.addArtist.Genre); genre != "" {
		artist = domain.NewDetailedArtist(name, genre, "")
	}
	e.commit(func(r *domain.Event) { r.Artists = append(r.Artists, artist) })
	e.addArtist.reset()
	return true, nil
}

func (e *Editor) CancelAddArtist() {
	e.addArtist.reset()
}

// RemoveArtist deletes entry i, keeping the order of the rest
func (e *Editor) RemoveArtist(i int) error {
	if i < 0 || i >= len(e.record.Artists) {
		return ErrIndexOutOfRange
	}
	e.commit(func(r *domain.Event) {
		r.Artists = append(r.Artists[:i], r.Artists[i+1:]...)
	})
	e.shiftAfterRemove(&e.artist, i)
	return nil
}

// Registry codes

func (e *Editor) BeginCode(i int) error {
	if i < 0 || i >= len(e.record.RegistryCodes) {
		return ErrIndexOutOfRange
	}
	e.code = ItemToggle{Mode: ModeEditing, Index: i, Name: e.record.RegistryCodes[i]}
	return nil
}

func (e *Editor) SetCodeDraft(s string) error {
	if !e.code.Editing() {
		return ErrNotEditing
	}
	e.code.Name = s
	return nil
}

func (e *Editor) SaveCode() error {
	if !e.code.Editing() {
		return ErrNotEditing
	}
	t := e.code
	e.code.reset()

	if t.Index >= len(e.record.RegistryCodes) {
		return nil
	}
	e.commit(func(r *domain.Event) { r.RegistryCodes[t.Index] = t.Name })
	return nil
}

func (e *Editor) CancelCode() {
	e.code.reset()
}

func (e *Editor) OpenAddCode() {
	e.addCode = AddForm{Mode: ModeEditing}
}

func (e *Editor) SetNewCodeDraft(s string) error {
	if !e.addCode.Open() {
		return ErrNotEditing
	}
	e.addCode.Name = s
	return nil
}

func (e *Editor) AddCode() (bool, error) {
	if !e.addCode.Open() {
		return false, ErrNotEditing
	}
	code := strings.TrimSpace(e.addCode.Name)
	if code == "" {
		return false, nil
	}
	e.commit(func(r *domain.Event) { r.RegistryCodes = append(r.RegistryCodes, code) })
	e.addCode.reset()
	return true, nil
}

func (e *Editor) CancelAddCode() {
	e.addCode.reset()
}

func (e *Editor) RemoveCode(i int) error {
	if i < 0 || i >= len(e.record.RegistryCodes) {
		return ErrIndexOutOfRange
	}
	e.commit(func(r *domain.Event) {
		r.RegistryCodes = append(r.RegistryCodes[:i], r.RegistryCodes[i+1:]...)
	})
	e.shiftAfterRemove(&e.code, i)
	return nil
}

// shiftAfterRemove keeps an open entry toggle pointing at the same entry
func (e *Editor) shiftAfterRemove(t *ItemToggle, removed int) {
	if !t.Editing() {
		return
	}
	switch {
	case t.Index == removed:
		t.reset()
	case t.Index > removed:
		t.Index--
	}
}

// Lightbox

func (e *Editor) OpenLightbox()  { e.lightbox.Open() }
func (e *Editor) CloseLightbox() { e.lightbox.Close() }
func (e *Editor) ZoomIn() bool   { return e.lightbox.ZoomIn() }
func (e *Editor) ZoomOut() bool  { return e.lightbox.ZoomOut() }
func (e *Editor) ResetZoom()     { e.lightbox.ResetZoom() }

func (e *Editor) StartDrag(x, y float64) bool { return e.lightbox.StartDrag(Point{X: x, Y: y}) }
func (e *Editor) DragTo(x, y float64) bool    { return e.lightbox.DragTo(Point{X: x, Y: y}) }
func (e *Editor) EndDrag()                    { e.lightbox.EndDrag() }

// dateOnly returns the UTC calendar date of an ISO-8601 value, or "" when unparsable
func dateOnly(s string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(dateLayout)
		}
	}
	return ""
}
