package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ArtistKind tags the shape an artist entry arrived in
type ArtistKind string

const (
	ArtistSimple   ArtistKind = "simple"
	ArtistDetailed ArtistKind = "detailed"
)

// Price sentinels
const (
	PriceUnspecified = -1.0
	PriceFree        = 0.0
)

// DescriptionKey is the ExtraFields key holding the free-text description
const DescriptionKey = "description"

// Artist is one performer of an event
type Artist struct {
	Kind       ArtistKind `json:"kind"`
	Name       string     `json:"name"`
	Genre      string     `json:"genre,omitempty"`
	Popularity string     `json:"popularity,omitempty"`
}

// NewSimpleArtist creates a name-only artist
func NewSimpleArtist(name string) Artist {
	return Artist{Kind: ArtistSimple, Name: name}
}

// NewDetailedArtist creates an artist carrying genre and popularity
func NewDetailedArtist(name, genre, popularity string) Artist {
	return Artist{Kind: ArtistDetailed, Name: name, Genre: genre, Popularity: popularity}
}

// DisplayName returns the artist name, or "N/A" for malformed entries
func (a Artist) DisplayName() string {
	if strings.TrimSpace(a.Name) == "" {
		return "N/A"
	}
	return a.Name
}

// IsDetailed reports whether the artist carries genre data
func (a Artist) IsDetailed() bool {
	return a.Kind == ArtistDetailed
}

// Venue is a place an event happens at
type Venue struct {
	City  string `json:"city"`
	Place string `json:"place"`
}

// Event is the canonical concert event record
type Event struct {
	ID             string         `json:"id"`
	HashID         string         `json:"hash_id,omitempty"`
	Name           string         `json:"name"`
	Artists        []Artist       `json:"artists"`
	Venues         []Venue        `json:"venues"`
	Dates          []string       `json:"dates"`
	Prices         []float64      `json:"prices"`
	Source         string         `json:"source"`
	URL            string         `json:"url,omitempty"`
	SearchCriteria string         `json:"search_criteria,omitempty"`
	Timestamp      string         `json:"timestamp,omitempty"`
	ExtraFields    Fields         `json:"extra_fields"`
	Images         []string       `json:"images"`
	InRegistry     *string        `json:"in_registry,omitempty"`
	RegistryCodes  []string       `json:"registry_codes"`
	EventType      string         `json:"event_type,omitempty"`
}

// DetailKey is the identifier used for detail routes and upstream lookups
func (e *Event) DetailKey() string {
	if e.HashID != "" {
		return e.HashID
	}
	return e.ID
}

// PrimaryDate returns Dates[0]
func (e *Event) PrimaryDate() (string, bool) {
	if len(e.Dates) == 0 {
		return "", false
	}
	return e.Dates[0], true
}

// PrimaryPrice returns Prices[0]
func (e *Event) PrimaryPrice() (float64, bool) {
	if len(e.Prices) == 0 {
		return 0, false
	}
	return e.Prices[0], true
}

// PrimaryImage returns Images[0]
func (e *Event) PrimaryImage() (string, bool) {
	if len(e.Images) == 0 || e.Images[0] == "" {
		return "", false
	}
	return e.Images[0], true
}

// Description returns ExtraFields["description"] when it is a string
func (e *Event) Description() string {
	if e.ExtraFields == nil {
		return ""
	}
	s, _ := e.ExtraFields[DescriptionKey].(string)
	return s
}

// RegistryStatus returns the PULEP status text, empty when unspecified
func (e *Event) RegistryStatus() string {
	if e.InRegistry == nil {
		return ""
	}
	return *e.InRegistry
}

// ArtistNames returns display names in order
func (e *Event) ArtistNames() []string {
	names := make([]string, len(e.Artists))
	for i, a := range e.Artists {
		names[i] = a.DisplayName()
	}
	return names
}

// Clone returns a deep copy so the copy can be modified without touching e
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	c.Artists = cloneSlice(e.Artists)
	c.Venues = cloneSlice(e.Venues)
	c.Dates = cloneSlice(e.Dates)
	c.Prices = cloneSlice(e.Prices)
	c.Images = cloneSlice(e.Images)
	c.RegistryCodes = cloneSlice(e.RegistryCodes)
	c.ExtraFields = e.ExtraFields.Clone()
	if e.InRegistry != nil {
		s := *e.InRegistry
		c.InRegistry = &s
	}
	return &c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}

// Fields is the open mapping of upstream passthrough values. Numbers decode
// as json.Number so large integers come back out exactly as they went in.
type Fields map[string]any

// UnmarshalJSON decodes an object keeping numbers as json.Number
func (f *Fields) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*f = m
	return nil
}

// Clone deep-copies nested values through a JSON round trip
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	if b, err := json.Marshal(f); err == nil {
		var out Fields
		if json.Unmarshal(b, &out) == nil {
			return out
		}
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
