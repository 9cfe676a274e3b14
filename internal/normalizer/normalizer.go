// Package normalizer maps raw upstream event objects onto domain.Event.
//
// Two shapes are accepted. The events API uses Spanish keys (nombre_del_evento,
// artistas, lugares, ...) and the catalog fixtures use title, artist and
// artist_details. Missing arrays become empty slices and unknown keys are
// ignored; nothing here rejects a record for a missing field.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
)

// ErrNotObject is returned when the raw value is not a JSON object
var ErrNotObject = errors.New("event payload is not a JSON object")

// Upstream keys
const (
	keyID             = "id"
	keyHashID         = "hashid"
	keyHashIDCamel    = "hashId"
	keyName           = "nombre_del_evento"
	keyArtists        = "artistas"
	keyVenues         = "lugares"
	keyCity           = "ciudad"
	keyPlace          = "direccion_o_nombre_del_lugar"
	keyDates          = "fechas"
	keyPrices         = "precios"
	keySource         = "fuente"
	keyURL            = "url"
	keySearchCriteria = "search_criteria"
	keyTimestamp      = "timestamp"
	keyExtraFields    = "otros_campos"
	keyImages         = "imagenes"
	keyInRegistry     = "esta_en_pulep"
	keyRegistryCodes  = "codigos_pulep"
	keyEventType      = "tipo_evento"
)

// Catalog keys
const (
	keyTitle         = "title"
	keyArtist        = "artist"
	keyArtistDetails = "artist_details"
	keyDate          = "date"
	keyDescription   = "description"
	keyImageURL      = "image_url"
	keyAzureImageURL = "azure_image_url"
)

// Normalize converts one raw event object
func Normalize(raw json.RawMessage) (*domain.Event, error) {
	obj, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return fromObject(obj), nil
}

// NormalizeList converts every object in raws, skipping entries that are not objects
func NormalizeList(raws []json.RawMessage) []*domain.Event {
	events := make([]*domain.Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := Normalize(raw)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func fromObject(obj map[string]any) *domain.Event {
	extra := objectField(obj, keyExtraFields)

	ev := &domain.Event{
		ID:             scalarString(obj[keyID]),
		HashID:         firstNonEmpty(stringField(obj, keyHashID), stringField(obj, keyHashIDCamel), stringField(extra, keyHashID)),
		Name:           firstNonEmpty(stringField(obj, keyName), stringField(obj, keyTitle)),
		Venues:         venues(obj[keyVenues]),
		Prices:         prices(obj[keyPrices]),
		Source:         stringField(obj, keySource),
		URL:            stringField(obj, keyURL),
		SearchCriteria: stringField(obj, keySearchCriteria),
		Timestamp:      stringField(obj, keyTimestamp),
		ExtraFields:    extra,
		RegistryCodes:  stringList(obj[keyRegistryCodes]),
		EventType:      stringField(obj, keyEventType),
	}

	if ev.ExtraFields == nil {
		ev.ExtraFields = map[string]any{}
	}
	if d, ok := obj[keyDescription].(string); ok {
		ev.ExtraFields[domain.DescriptionKey] = d
	}

	ev.Artists = artists(obj)
	ev.Dates = dates(obj)
	ev.Images = images(obj)

	if v, ok := obj[keyInRegistry]; ok && v != nil {
		s := scalarString(v)
		ev.InRegistry = &s
	}

	return ev
}

// artists prefers artist_details, then artistas, then artist
func artists(obj map[string]any) []domain.Artist {
	if details, ok := obj[keyArtistDetails].([]any); ok && len(details) > 0 {
		return artistList(details)
	}
	if list, ok := obj[keyArtists].([]any); ok {
		return artistList(list)
	}
	if list, ok := obj[keyArtist].([]any); ok {
		return artistList(list)
	}
	return []domain.Artist{}
}

func artistList(list []any) []domain.Artist {
	out := make([]domain.Artist, 0, len(list))
	for _, item := range list {
		out = append(out, artist(item))
	}
	return out
}

func artist(item any) domain.Artist {
	switch v := item.(type) {
	case string:
		return domain.NewSimpleArtist(v)
	case map[string]any:
		return domain.NewDetailedArtist(
			stringField(v, "name"),
			stringField(v, "genre"),
			scalarString(v["popularity"]),
		)
	default:
		// rendered as "N/A"
		return domain.NewSimpleArtist("")
	}
}

func venues(v any) []domain.Venue {
	list, _ := v.([]any)
	out := make([]domain.Venue, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, domain.Venue{})
			continue
		}
		out = append(out, domain.Venue{
			City:  stringField(m, keyCity),
			Place: stringField(m, keyPlace),
		})
	}
	return out
}

func dates(obj map[string]any) []string {
	if _, ok := obj[keyDates]; ok {
		return stringList(obj[keyDates])
	}
	if d := stringField(obj, keyDate); d != "" {
		return []string{d}
	}
	return []string{}
}

func images(obj map[string]any) []string {
	if _, ok := obj[keyImages]; ok {
		return stringList(obj[keyImages])
	}
	out := []string{}
	for _, key := range []string{keyAzureImageURL, keyImageURL} {
		if s := stringField(obj, key); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func prices(v any) []float64 {
	list, _ := v.([]any)
	out := make([]float64, 0, len(list))
	for _, item := range list {
		out = append(out, number(item))
	}
	return out
}

// number returns the unspecified sentinel for anything that is not numeric
func number(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return f
		}
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f
		}
	}
	return domain.PriceUnspecified
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, scalarString(item))
		}
		return out
	case string:
		if list == "" {
			return []string{}
		}
		return []string{list}
	default:
		return []string{}
	}
}

func objectField(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)
	return m
}

func stringField(obj map[string]any, key string) string {
	if obj == nil {
		return ""
	}
	return scalarString(obj[key])
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
