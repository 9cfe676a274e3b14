package editor

import (
	"encoding/json"
	"fmt"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
)

// Snapshot is the serializable state of an Editor
type Snapshot struct {
	Record      *domain.Event `json:"record"`
	Title       Toggle        `json:"title"`
	Date        Toggle        `json:"date"`
	Description Toggle        `json:"description"`
	Artist      ItemToggle    `json:"artist"`
	Code        ItemToggle    `json:"code"`
	AddArtist   AddForm       `json:"add_artist"`
	AddCode     AddForm       `json:"add_code"`
	Lightbox    Lightbox      `json:"lightbox"`
}

// Snapshot captures the full editor state
func (e *Editor) Snapshot() Snapshot {
	return Snapshot{
		Record:      e.record.Clone(),
		Title:       e.title,
		Date:        e.date,
		Description: e.description,
		Artist:      e.artist,
		Code:        e.code,
		AddArtist:   e.addArtist,
		AddCode:     e.addCode,
		Lightbox:    e.lightbox,
	}
}

// Restore rebuilds an editor from a snapshot
func Restore(s Snapshot) *Editor {
	rec := s.Record.Clone()
	if rec == nil {
		rec = &domain.Event{}
	}
	lb := s.Lightbox
	if lb.Scale == 0 {
		lb.Scale = DefaultScale
	}
	return &Editor{
		record:      rec,
		title:       s.Title,
		date:        s.Date,
		description: s.Description,
		artist:      s.Artist,
		code:        s.Code,
		addArtist:   s.AddArtist,
		addCode:     s.AddCode,
		lightbox:    lb,
	}
}

// MarshalJSON encodes the editor as its snapshot
func (e *Editor) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Snapshot())
}

// UnmarshalJSON decodes a snapshot into e
func (e *Editor) UnmarshalJSON(b []byte) error {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode editor snapshot: %w", err)
	}
	*e = *Restore(s)
	return nil
}
