// Package view renders the dashboard pages from embedded templates.
package view

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/editor"
	"github.com/prohmpiriya/concert-events-dashboard/internal/pager"
	"github.com/prohmpiriya/concert-events-dashboard/internal/selection"
)

// Template names
const (
	TemplateList     = "list.html"
	TemplateDetail   = "detail.html"
	TemplateNotFound = "not_found.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded templates with the helper functions
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// ListRow is one table row of the list page
type ListRow struct {
	ID          string
	Date        string
	Artists     string
	Title       string
	Registry    string
	Badge       string
	Highlight   bool
	DetailURL   string
	SelectURL   string
	DisplayName string
}

// ListPage is the data of the list page
type ListPage struct {
	Page        int
	Offset      int
	Loading     bool
	Rows        []ListRow
	CanPrevious bool
	CanNext     bool
	PreviousURL string
	NextURL     string
	Modal       *Modal
}

// Modal is the quick-look detail of a selected row
type Modal struct {
	Found    bool
	Event    *domain.Event
	CloseURL string
}

// DetailPage is the data of the editable detail page
type DetailPage struct {
	Event     *domain.Event
	Editor    *editor.Editor
	SessionID string
	ActionURL string
	// DiscardURL drops the working copy and returns to the list
	DiscardURL string
	Image      string
	HasImage   bool
}

// NotFoundPage is the data of the not-found page
type NotFoundPage struct {
	BackURL string
}

func listURL(offset int, selected string) string {
	q := url.Values{}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if selected != "" {
		q.Set("selected", selected)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// DetailURL is the route of the detail page of e
func DetailURL(e *domain.Event) string {
	return "/events/" + url.PathEscape(e.DetailKey())
}

// SessionURL is the route of an editing session
func SessionURL(eventKey, sessionID string) string {
	return "/events/" + url.PathEscape(eventKey) + "/sessions/" + url.PathEscape(sessionID)
}

// NewListPage builds the list page from the pager position and the selection
// context holding the loaded rows and the modal's record.
func NewListPage(st pager.State, sel *selection.Context) *ListPage {
	events := sel.Events()
	p := &ListPage{
		Page:        st.Page,
		Offset:      st.Offset,
		Loading:     st.Loading,
		CanPrevious: st.CanPrevious,
		CanNext:     st.CanNext,
		PreviousURL: navURL(NavPrevious, st.Offset),
		NextURL:     navURL(NavNext, st.Offset),
		Rows:        make([]ListRow, 0, len(events)),
	}

	for _, e := range events {
		status := e.RegistryStatus()
		p.Rows = append(p.Rows, ListRow{
			ID:          e.ID,
			Date:        ListDate(e.Dates),
			Artists:     ListArtists(e),
			Title:       ListTitle(e.Name),
			Registry:    RegistryLabel(status),
			Badge:       RegistryBadge(status),
			Highlight:   HighlightRow(status),
			DetailURL:   DetailURL(e),
			SelectURL:   listURL(st.Offset, e.ID),
			DisplayName: e.Name,
		})
	}

	if sel.HasSelection() {
		event, found := sel.Selected()
		p.Modal = &Modal{Found: found, Event: event, CloseURL: listURL(st.Offset, "")}
	}
	return p
}

// Pagination directions carried in the "nav" query parameter
const (
	NavNext     = "next"
	NavPrevious = "prev"
)

// navURL moves one page from the committed offset "from", so a failed
// navigation renders with the page the user left
func navURL(nav string, from int) string {
	q := url.Values{}
	q.Set("nav", nav)
	q.Set("from", strconv.Itoa(from))
	return "/?" + q.Encode()
}

// NewDetailPage builds the detail page of an editing session
func NewDetailPage(eventKey, sessionID string, ed *editor.Editor) *DetailPage {
	rec := ed.Record()
	img, ok := rec.PrimaryImage()
	base := SessionURL(eventKey, sessionID)
	return &DetailPage{
		Event:      rec,
		Editor:     ed,
		SessionID:  sessionID,
		ActionURL:  base + "/actions",
		DiscardURL: base + "/discard",
		Image:      img,
		HasImage:   ok,
	}
}
