package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/concert-events-dashboard/internal/dto"
	"github.com/prohmpiriya/concert-events-dashboard/internal/service"
)

const msgInvalidPagination = "Invalid pagination parameters"

// ProxyHandler serves the list proxy
type ProxyHandler struct {
	events service.EventService
}

// NewProxyHandler creates a new ProxyHandler
func NewProxyHandler(events service.EventService) *ProxyHandler {
	return &ProxyHandler{events: events}
}

// List handles GET /api/events?offset=&limit=
// A successful upstream body is relayed byte for byte.
func (h *ProxyHandler) List(c *gin.Context) {
	var query dto.EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidPagination, Details: err.Error()})
		return
	}

	offset, limit, err := query.Parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidPagination, Details: err.Error()})
		return
	}

	page, err := h.events.ListPage(c.Request.Context(), offset, limit)
	if err != nil {
		var proxyErr *service.ProxyError
		switch {
		case errors.As(err, &proxyErr):
			c.JSON(proxyErr.StatusCode, dto.ErrorResponse{Error: proxyErr.Message, Details: proxyErr.Details})
		case errors.Is(err, service.ErrInvalidPagination):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidPagination, Details: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: service.MsgProxyError, Details: err.Error()})
		}
		return
	}

	c.Data(http.StatusOK, "application/json", page.Body)
}
