package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamEvent = `{
	"id": "evt-1",
	"nombre_del_evento": "Festival Estéreo Picnic",
	"artistas": ["Kali Uchis", {"name": "Bomba Estéreo", "genre": "Electro", "popularity": 87}, 42],
	"lugares": [{"ciudad": "Bogotá", "direccion_o_nombre_del_lugar": "Parque Simón Bolívar"}],
	"fechas": ["2024-03-21T00:00:00Z"],
	"precios": [350000, "n/a"],
	"fuente": "tuboleta",
	"url": "https://example.com/fep",
	"search_criteria": "festival bogota",
	"timestamp": "2024-01-10T12:00:00Z",
	"otros_campos": {"description": "Tres días", "hashid": "abc123"},
	"imagenes": ["https://img/fep.jpg"],
	"esta_en_pulep": "Sí, con código",
	"codigos_pulep": ["PUL-001"],
	"tipo_evento": "Festival"
}`

const catalogEvent = `{
	"id": "ce001",
	"title": "Summer Jam Festival",
	"artist": ["Taylor Swift", "Ed Sheeran"],
	"date": "2023-07-15",
	"description": "The biggest summer music festival",
	"image_url": "https://example.com/images/summer-jam.jpg",
	"azure_image_url": "https://mystorage.blob.core.windows.net/events/summer-jam.jpg",
	"artist_details": [
		{"name": "Taylor Swift", "genre": "Pop", "popularity": "High"},
		{"name": "Ed Sheeran", "genre": "Pop/Folk", "popularity": "High"}
	]
}`

func TestNormalize_UpstreamShape(t *testing.T) {
	ev, err := Normalize(json.RawMessage(upstreamEvent))
	require.NoError(t, err)

	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, "abc123", ev.HashID)
	assert.Equal(t, "abc123", ev.DetailKey())
	assert.Equal(t, "Festival Estéreo Picnic", ev.Name)

	require.Len(t, ev.Artists, 3)
	assert.Equal(t, domain.NewSimpleArtist("Kali Uchis"), ev.Artists[0])
	assert.Equal(t, domain.NewDetailedArtist("Bomba Estéreo", "Electro", "87"), ev.Artists[1])
	assert.Equal(t, "N/A", ev.Artists[2].DisplayName())

	assert.Equal(t, []domain.Venue{{City: "Bogotá", Place: "Parque Simón Bolívar"}}, ev.Venues)
	assert.Equal(t, []string{"2024-03-21T00:00:00Z"}, ev.Dates)
	assert.Equal(t, []float64{350000, domain.PriceUnspecified}, ev.Prices)
	assert.Equal(t, "tuboleta", ev.Source)
	assert.Equal(t, "https://example.com/fep", ev.URL)
	assert.Equal(t, "festival bogota", ev.SearchCriteria)
	assert.Equal(t, "Tres días", ev.Description())
	assert.Equal(t, []string{"https://img/fep.jpg"}, ev.Images)
	require.NotNil(t, ev.InRegistry)
	assert.Equal(t, "Sí, con código", *ev.InRegistry)
	assert.Equal(t, []string{"PUL-001"}, ev.RegistryCodes)
	assert.Equal(t, "Festival", ev.EventType)
}

func TestNormalize_CatalogShape(t *testing.T) {
	ev, err := Normalize(json.RawMessage(catalogEvent))
	require.NoError(t, err)

	assert.Equal(t, "ce001", ev.ID)
	assert.Equal(t, "ce001", ev.DetailKey())
	assert.Equal(t, "Summer Jam Festival", ev.Name)
	require.Len(t, ev.Artists, 2)
	assert.True(t, ev.Artists[0].IsDetailed())
	assert.Equal(t, "Pop/Folk", ev.Artists[1].Genre)
	assert.Equal(t, []string{"2023-07-15"}, ev.Dates)
	assert.Equal(t, "The biggest summer music festival", ev.Description())
	assert.Equal(t, []string{
		"https://mystorage.blob.core.windows.net/events/summer-jam.jpg",
		"https://example.com/images/summer-jam.jpg",
	}, ev.Images)
	assert.Nil(t, ev.InRegistry)
}

func TestNormalize_MissingFields(t *testing.T) {
	ev, err := Normalize(json.RawMessage(`{"id": 7}`))
	require.NoError(t, err)

	assert.Equal(t, "7", ev.ID)
	assert.Empty(t, ev.Name)
	assert.NotNil(t, ev.Artists)
	assert.Empty(t, ev.Artists)
	assert.Empty(t, ev.Venues)
	assert.Empty(t, ev.Dates)
	assert.Empty(t, ev.Prices)
	assert.Empty(t, ev.Images)
	assert.Empty(t, ev.RegistryCodes)
	assert.NotNil(t, ev.ExtraFields)
	assert.Empty(t, ev.URL)
	assert.Nil(t, ev.InRegistry)
}

func TestNormalize_HashIDVariants(t *testing.T) {
	ev, err := Normalize(json.RawMessage(`{"id": "1", "hashId": "camel"}`))
	require.NoError(t, err)
	assert.Equal(t, "camel", ev.HashID)

	ev, err = Normalize(json.RawMessage(`{"id": "1", "hashid": "lower", "hashId": "camel"}`))
	require.NoError(t, err)
	assert.Equal(t, "lower", ev.HashID)
}

func TestNormalize_NotObject(t *testing.T) {
	_, err := Normalize(json.RawMessage(`["a"]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Normalize(json.RawMessage(`{broken`))
	assert.Error(t, err)
}

func TestNormalizeList_SkipsNonObjects(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"id": "a"}`),
		json.RawMessage(`"junk"`),
		json.RawMessage(`{"id": "b"}`),
	}

	events := NormalizeList(raws)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
}
