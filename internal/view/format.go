package view

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/editor"
	"github.com/samber/lo"
)

const (
	notAvailable     = "N/A"
	listArtistsWidth = 20
	listTitleWidth   = 30
)

// Badge colors for the PULEP registry status
const (
	BadgeGreen  = "green"
	BadgeRed    = "red"
	BadgeOrange = "orange"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isAffirmative(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return strings.HasPrefix(s, "sí") || strings.HasPrefix(s, "si")
}

// RegistryBadge classifies a PULEP status. It is recomputed on every render.
func RegistryBadge(status string) string {
	switch {
	case isAffirmative(status):
		return BadgeGreen
	case strings.ToLower(strings.TrimSpace(status)) == "no":
		return BadgeRed
	default:
		return BadgeOrange
	}
}

// RegistryLabel returns the status text, "N/A" when unspecified
func RegistryLabel(status string) string {
	if strings.TrimSpace(status) == "" {
		return notAvailable
	}
	return status
}

// HighlightRow reports whether a list row needs attention
func HighlightRow(status string) bool {
	return !isAffirmative(status)
}

// Truncate cuts s to n runes and appends "..." when it was longer
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func formatAmount(p float64) string {
	return "$" + strconv.FormatFloat(p, 'f', -1, 64)
}

// PriceLabel renders the primary price of the detail sidebar
func PriceLabel(prices []float64) string {
	if len(prices) == 0 {
		return "Not specified"
	}
	switch p := prices[0]; p {
	case domain.PriceUnspecified:
		return "Not specified"
	case domain.PriceFree:
		return "Free"
	default:
		return formatAmount(p)
	}
}

// ModalPrices lists every price, or "Free or N/A" when the primary one is a sentinel
func ModalPrices(prices []float64) string {
	if len(prices) == 0 || prices[0] == domain.PriceUnspecified || prices[0] == domain.PriceFree {
		return "Free or N/A"
	}
	return strings.Join(lo.Map(prices, func(p float64, _ int) string {
		return formatAmount(p)
	}), ", ")
}

// ListDate formats the primary date for the list table
func ListDate(dates []string) string {
	if len(dates) == 0 || dates[0] == "" {
		return notAvailable
	}
	if t, ok := parseDate(dates[0]); ok {
		return t.Format("2/1/2006")
	}
	return dates[0]
}

// DetailDate formats the primary date on the detail page
func DetailDate(dates []string) string {
	if len(dates) == 0 || dates[0] == "" || dates[0] == "null" {
		return "Date not available"
	}
	if t, ok := parseDate(dates[0]); ok {
		return t.Format("January 2, 2006")
	}
	return dates[0]
}

// DateTime formats a date with time of day for the modal
func DateTime(s string) string {
	if s == "" {
		return notAvailable
	}
	if t, ok := parseDate(s); ok {
		return t.Format("2006-01-02 15:04")
	}
	return s
}

// DateInput returns the YYYY-MM-DD prefix used to seed a date input
func DateInput(dates []string) string {
	if len(dates) == 0 {
		return ""
	}
	if t, ok := parseDate(dates[0]); ok {
		return t.Format("2006-01-02")
	}
	return ""
}

// ListArtists joins artist names and cuts them for the table
func ListArtists(e *domain.Event) string {
	if len(e.Artists) == 0 {
		return notAvailable
	}
	return Truncate(strings.Join(e.ArtistNames(), ", "), listArtistsWidth)
}

// ListTitle cuts the event name for the table
func ListTitle(name string) string {
	if name == "" {
		return notAvailable
	}
	return Truncate(name, listTitleWidth)
}

// Locations renders venues as "place, city" joined with "; "
func Locations(venues []domain.Venue) string {
	if len(venues) == 0 {
		return notAvailable
	}
	parts := lo.Map(venues, func(v domain.Venue, _ int) string {
		if v.City == "" {
			return v.Place
		}
		return v.Place + ", " + v.City
	})
	return strings.Join(parts, "; ")
}

// PrettyJSON indents extra fields for display
func PrettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// OrNA substitutes "N/A" for blank strings
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// ImageTransform renders the lightbox state as a CSS transform
func ImageTransform(l editor.Lightbox) template.CSS {
	scale := l.Scale
	if scale == 0 {
		scale = editor.DefaultScale
	}
	return template.CSS(fmt.Sprintf("transform: translate(%gpx, %gpx) scale(%g)", l.Offset.X, l.Offset.Y, scale))
}

// ZoomPercent renders the lightbox scale as a percentage
func ZoomPercent(scale float64) string {
	return strconv.Itoa(int(scale*100+0.5)) + "%"
}

// FuncMap exposes the helpers to templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"registryBadge":  RegistryBadge,
		"registryLabel":  RegistryLabel,
		"highlightRow":   HighlightRow,
		"priceLabel":     PriceLabel,
		"modalPrices":    ModalPrices,
		"listDate":       ListDate,
		"detailDate":     DetailDate,
		"dateTime":       DateTime,
		"dateInput":      DateInput,
		"listArtists":    ListArtists,
		"listTitle":      ListTitle,
		"locations":      Locations,
		"prettyJSON":     PrettyJSON,
		"orNA":           OrNA,
		"imageTransform": ImageTransform,
		"zoomPercent":    ZoomPercent,
		"act":            Act,
		"initials":       Initials,
	}
}

// ActionButton is a single-button form posting one editor action
type ActionButton struct {
	URL      string
	Action   string
	Label    string
	Index    int
	HasIndex bool
}

// Act builds an ActionButton; an optional index targets a list entry
func Act(url, action, label string, index ...int) ActionButton {
	b := ActionButton{URL: url, Action: action, Label: label}
	if len(index) > 0 {
		b.Index = index[0]
		b.HasIndex = true
	}
	return b
}

// Initials returns the first two runes of a name for the avatar
func Initials(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}
