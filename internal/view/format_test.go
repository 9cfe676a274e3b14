package view

import (
	"testing"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/editor"
	"github.com/stretchr/testify/assert"
)

func TestRegistryBadge(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Sí", BadgeGreen},
		{"sí, con código", BadgeGreen},
		{"si", BadgeGreen},
		{"SI registrado", BadgeGreen},
		{"No", BadgeRed},
		{" no ", BadgeRed},
		{"No aplica", BadgeOrange},
		{"En trámite", BadgeOrange},
		{"", BadgeOrange},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistryBadge(tt.status))
		})
	}
}

func TestHighlightRow(t *testing.T) {
	assert.False(t, HighlightRow("Sí"))
	assert.True(t, HighlightRow("No"))
	assert.True(t, HighlightRow(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 20))
	assert.Equal(t, "exactly-twenty-chars", Truncate("exactly-twenty-chars", 20))
	assert.Equal(t, "Bad Bunny, Karol G, ...", Truncate("Bad Bunny, Karol G, Feid", 20))
	assert.Equal(t, "ñañaña...", Truncate("ñañañañaña", 6))
}

func TestPriceLabel(t *testing.T) {
	assert.Equal(t, "Not specified", PriceLabel(nil))
	assert.Equal(t, "Not specified", PriceLabel([]float64{-1}))
	assert.Equal(t, "Free", PriceLabel([]float64{0, 100}))
	assert.Equal(t, "$150000", PriceLabel([]float64{150000}))
	assert.Equal(t, "$49.5", PriceLabel([]float64{49.5}))
}

func TestModalPrices(t *testing.T) {
	assert.Equal(t, "Free or N/A", ModalPrices(nil))
	assert.Equal(t, "Free or N/A", ModalPrices([]float64{-1, 20}))
	assert.Equal(t, "Free or N/A", ModalPrices([]float64{0}))
	assert.Equal(t, "$80, $120", ModalPrices([]float64{80, 120}))
}

func TestDates(t *testing.T) {
	assert.Equal(t, "N/A", ListDate(nil))
	assert.Equal(t, "15/3/2025", ListDate([]string{"2025-03-15T20:00:00.000Z"}))
	assert.Equal(t, "someday", ListDate([]string{"someday"}))

	assert.Equal(t, "Date not available", DetailDate(nil))
	assert.Equal(t, "Date not available", DetailDate([]string{"null"}))
	assert.Equal(t, "March 15, 2025", DetailDate([]string{"2025-03-15"}))

	assert.Equal(t, "N/A", DateTime(""))
	assert.Equal(t, "2025-03-15 20:30", DateTime("2025-03-15T20:30:00Z"))

	assert.Equal(t, "2025-03-15", DateInput([]string{"2025-03-15T20:30:00Z"}))
	assert.Equal(t, "", DateInput([]string{"TBD"}))
}

func TestListColumns(t *testing.T) {
	e := &domain.Event{
		Name: "Festival Estéreo Picnic 2025 - Día Uno",
		Artists: []domain.Artist{
			domain.NewSimpleArtist("Bad Bunny"),
			domain.NewSimpleArtist("Karol G"),
			domain.NewSimpleArtist("Feid"),
		},
	}

	assert.Equal(t, "Bad Bunny, Karol G, ...", ListArtists(e))
	assert.Equal(t, "Festival Estéreo Picnic 2025 -...", ListTitle(e.Name))
	assert.Equal(t, "N/A", ListTitle(""))
	assert.Equal(t, "N/A", ListArtists(&domain.Event{}))
}

func TestLocations(t *testing.T) {
	assert.Equal(t, "N/A", Locations(nil))
	assert.Equal(t, "Movistar Arena, Bogotá; Estadio Atanasio Girardot", Locations([]domain.Venue{
		{City: "Bogotá", Place: "Movistar Arena"},
		{Place: "Estadio Atanasio Girardot"},
	}))
}

func TestImageTransform(t *testing.T) {
	l := editor.NewLightbox()
	assert.Equal(t, "transform: translate(0px, 0px) scale(1)", string(ImageTransform(l)))

	l.Scale = 2.5
	l.Offset = editor.Point{X: 10, Y: -4.5}
	assert.Equal(t, "transform: translate(10px, -4.5px) scale(2.5)", string(ImageTransform(l)))
	assert.Equal(t, "250%", ZoomPercent(l.Scale))
}

func TestAct(t *testing.T) {
	b := Act("/x", "title.begin", "Edit")
	assert.False(t, b.HasIndex)

	b = Act("/x", "artist.remove", "Remove", 2)
	assert.True(t, b.HasIndex)
	assert.Equal(t, 2, b.Index)
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "BA", Initials("Bad Bunny"))
	assert.Equal(t, "J", Initials("j"))
	assert.Equal(t, "", Initials(""))
}
