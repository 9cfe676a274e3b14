package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prohmpiriya/concert-events-dashboard/internal/domain"
	"github.com/prohmpiriya/concert-events-dashboard/internal/dto"
	"github.com/prohmpiriya/concert-events-dashboard/internal/normalizer"
	"github.com/prohmpiriya/concert-events-dashboard/internal/upstream"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/logger"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// eventService implements EventService
type eventService struct {
	client upstream.Client
	log    *logger.Logger
}

// NewEventService creates a new EventService
func NewEventService(client upstream.Client, log *logger.Logger) EventService {
	if log == nil {
		log = logger.Nop()
	}
	return &eventService{client: client, log: log}
}

// ListPage forwards a page request and classifies the reply.
// A body carrying "detail" is a validation error whatever the status;
// otherwise non-2xx statuses are relayed with the parsed body or raw text.
func (s *eventService) ListPage(ctx context.Context, offset, limit int) (*dto.EventPage, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.list_page")
	defer span.End()
	span.SetAttributes(attribute.Int("page.offset", offset), attribute.Int("page.limit", limit))

	if offset < 0 || limit <= 0 {
		return nil, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPagination, offset, limit)
	}

	resp, err := s.client.ListEvents(ctx, offset, limit)
	if err != nil {
		s.log.WithContext(ctx).Error("Upstream request failed",
			zap.String("operation", "list_events"),
			zap.Error(err),
		)
		span.SetStatus(codes.Error, err.Error())
		return nil, newTransportError(err)
	}

	parsed, isJSON := decodeJSON(resp.Body)

	if detail, ok := detailOf(parsed); ok {
		s.log.WithContext(ctx).Warn("External API returned validation error",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", compact(detail)),
		)
		span.SetStatus(codes.Error, MsgValidationError)
		return nil, newValidationError(detail)
	}

	if !resp.IsSuccess() {
		s.log.WithContext(ctx).Warn("External API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
		span.SetStatus(codes.Error, fmt.Sprintf("upstream status %d", resp.StatusCode))
		if isJSON {
			return nil, newUpstreamError(resp.StatusCode, parsed)
		}
		return nil, newUpstreamError(resp.StatusCode, string(resp.Body))
	}

	if !isJSON {
		err := errors.New("upstream page is not valid JSON")
		s.log.WithContext(ctx).Error("Undecodable upstream page", zap.ByteString("body", resp.Body))
		span.SetStatus(codes.Error, err.Error())
		return nil, newTransportError(err)
	}

	// Any JSON body is relayed; Events is filled only from an eventos array
	events := eventosOf(resp.Body)
	if events == nil {
		s.log.WithContext(ctx).Warn("Upstream page has no eventos array", zap.Int("status", resp.StatusCode))
	}

	span.SetAttributes(attribute.Int("page.size", len(events)))
	span.SetStatus(codes.Ok, "")
	return &dto.EventPage{Body: resp.Body, Events: events}, nil
}

func eventosOf(body []byte) []json.RawMessage {
	var envelope struct {
		Eventos []json.RawMessage `json:"eventos"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Eventos
}

// GetEvent fetches one event straight from upstream
func (s *eventService) GetEvent(ctx context.Context, key string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.get_event")
	defer span.End()
	span.SetAttributes(attribute.String("event.key", key))

	if key == "" {
		return nil, ErrEventNotFound
	}

	resp, err := s.client.GetEvent(ctx, key)
	if err != nil {
		s.log.WithContext(ctx).Warn("Event fetch failed", zap.String("key", key), zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEventNotFound, err)
	}
	if !resp.IsSuccess() {
		span.SetStatus(codes.Error, fmt.Sprintf("upstream status %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: upstream status %d", ErrEventNotFound, resp.StatusCode)
	}

	parsed, _ := decodeJSON(resp.Body)
	if _, ok := detailOf(parsed); ok {
		span.SetStatus(codes.Error, MsgValidationError)
		return nil, fmt.Errorf("%w: upstream validation error", ErrEventNotFound)
	}

	ev, err := normalizer.Normalize(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrEventNotFound, err)
	}

	span.SetStatus(codes.Ok, "")
	return ev, nil
}

func decodeJSON(body []byte) (any, bool) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	return v, true
}

func detailOf(v any) (any, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	detail, ok := obj["detail"]
	return detail, ok
}

func compact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
