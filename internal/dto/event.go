package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Default pagination values for /api/events
const (
	DefaultOffset = 0
	DefaultLimit  = 6
)

// EventListQuery is the raw query of GET /api/events
type EventListQuery struct {
	Offset string `form:"offset"`
	Limit  string `form:"limit"`
}

// Parse applies defaults and converts the query to integers
func (q *EventListQuery) Parse() (offset, limit int, err error) {
	offset, limit = DefaultOffset, DefaultLimit

	if q.Offset != "" {
		offset, err = strconv.Atoi(q.Offset)
		if err != nil {
			return 0, 0, fmt.Errorf("offset must be an integer: %q", q.Offset)
		}
	}
	if q.Limit != "" {
		limit, err = strconv.Atoi(q.Limit)
		if err != nil {
			return 0, 0, fmt.Errorf("limit must be an integer: %q", q.Limit)
		}
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("offset must be >= 0, got %d", offset)
	}
	if limit <= 0 {
		return 0, 0, fmt.Errorf("limit must be > 0, got %d", limit)
	}
	return offset, limit, nil
}

// EventPage is a successful upstream page.
// Body is relayed verbatim; Events holds the raw items of its eventos array.
type EventPage struct {
	Body   []byte
	Events []json.RawMessage
}

// ErrorResponse is the error body of the list proxy; details is always present
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}
