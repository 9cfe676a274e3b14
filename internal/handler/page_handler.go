package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prohmpiriya/concert-events-dashboard/internal/editor"
	"github.com/prohmpiriya/concert-events-dashboard/internal/pager"
	"github.com/prohmpiriya/concert-events-dashboard/internal/repository"
	"github.com/prohmpiriya/concert-events-dashboard/internal/selection"
	"github.com/prohmpiriya/concert-events-dashboard/internal/service"
	"github.com/prohmpiriya/concert-events-dashboard/internal/view"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/logger"
	"github.com/prohmpiriya/concert-events-dashboard/pkg/response"
	"go.uber.org/zap"
)

// Recorder receives dashboard activity counts
type Recorder interface {
	PageRendered(page string)
	SessionOpened()
	SessionDiscarded()
	EditorAction(action, result string)
}

type nopRecorder struct{}

func (nopRecorder) PageRendered(string)         {}
func (nopRecorder) SessionOpened()              {}
func (nopRecorder) SessionDiscarded()           {}
func (nopRecorder) EditorAction(string, string) {}

// Editor action results
const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultUnknown  = "unknown"
)

// unknownActionLabel replaces unrecognized action names in metrics so clients
// cannot mint new label values
const unknownActionLabel = "unknown"

// PageHandlerConfig holds the dependencies of PageHandler
type PageHandlerConfig struct {
	Events   service.EventService
	Sessions repository.SessionRepository
	PageSize int
	Recorder Recorder
	Logger   *logger.Logger
}

// PageHandler serves the HTML dashboard and its editing sessions
type PageHandler struct {
	events   service.EventService
	fetcher  *service.PageFetcher
	sessions repository.SessionRepository
	pageSize int
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(cfg *PageHandlerConfig) *PageHandler {
	h := &PageHandler{
		events:   cfg.Events,
		fetcher:  service.NewPageFetcher(cfg.Events),
		sessions: cfg.Sessions,
		pageSize: cfg.PageSize,
		recorder: cfg.Recorder,
		log:      cfg.Logger,
		now:      time.Now,
	}
	if h.pageSize <= 0 {
		h.pageSize = pager.DefaultPageSize
	}
	if h.recorder == nil {
		h.recorder = nopRecorder{}
	}
	if h.log == nil {
		h.log = logger.Nop()
	}
	return h
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// List handles GET /?offset=&nav=&from=&selected=
// "from" is the page the user navigated away from; it stays committed if the
// new page cannot be fetched. nav moves one page from it, offset jumps.
func (h *PageHandler) List(c *gin.Context) {
	ctrl := h.navigate(c)
	st := ctrl.State()

	sel := selection.New()
	sel.SetEvents(st.Events)
	if id := c.Query("selected"); id != "" {
		sel.Select(id)
	} else {
		sel.Clear()
	}

	h.recorder.PageRendered("list")
	c.HTML(http.StatusOK, view.TemplateList, view.NewListPage(st, sel))
}

func (h *PageHandler) navigate(c *gin.Context) *pager.Controller {
	ctx := c.Request.Context()
	offset, _ := queryInt(c, "offset")
	from, hasFrom := queryInt(c, "from")

	if hasFrom {
		ctrl := pager.NewAt(h.fetcher, h.pageSize, from, h.log)
		var err error
		switch c.Query("nav") {
		case view.NavNext:
			err = ctrl.Next(ctx)
		case view.NavPrevious:
			err = ctrl.Previous(ctx)
		default:
			if from == offset {
				err = ctrl.Load(ctx)
			} else {
				err = ctrl.GoTo(ctx, offset)
			}
		}
		// nothing to move to from here, show the committed page instead
		if errors.Is(err, pager.ErrNavigationDisabled) {
			_ = ctrl.Load(ctx)
		}
		return ctrl
	}

	ctrl := pager.NewAt(h.fetcher, h.pageSize, offset, h.log)
	_ = ctrl.Load(ctx)
	return ctrl
}

// Detail handles GET /events/:id by loading the event and opening an editing session
func (h *PageHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("id")

	event, err := h.events.GetEvent(ctx, key)
	if err != nil {
		h.notFound(c)
		return
	}

	now := h.now()
	sess := &repository.Session{
		ID:        uuid.New().String(),
		EventKey:  key,
		Editor:    editor.New(event),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		h.log.WithContext(ctx).Error("Failed to open editing session", zap.String("event_key", key), zap.Error(err))
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	h.recorder.SessionOpened()
	c.Redirect(http.StatusSeeOther, view.SessionURL(key, sess.ID))
}

// Session handles GET /events/:id/sessions/:session
func (h *PageHandler) Session(c *gin.Context) {
	sess, ok := h.loadSession(c)
	if !ok {
		h.notFound(c)
		return
	}

	h.recorder.PageRendered("detail")
	c.HTML(http.StatusOK, view.TemplateDetail, view.NewDetailPage(sess.EventKey, sess.ID, sess.Editor))
}

// Action handles POST /events/:id/sessions/:session/actions
func (h *PageHandler) Action(c *gin.Context) {
	var cmd editor.Command
	if err := c.ShouldBind(&cmd); err != nil {
		c.String(http.StatusBadRequest, "invalid editor command")
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		h.notFound(c)
		return
	}

	if err := h.apply(c, sess, cmd); err != nil {
		if errors.Is(err, editor.ErrUnknownAction) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c.Redirect(http.StatusSeeOther, view.SessionURL(sess.EventKey, sess.ID))
}

// Discard handles POST /events/:id/sessions/:session/discard. Leaving the
// detail page drops the working copy; unknown sessions just go back.
func (h *PageHandler) Discard(c *gin.Context) {
	if sess, ok := h.loadSession(c); ok {
		// a failed delete still expires with the TTL
		_ = h.deleteSession(c, sess.ID)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// DeleteSessionJSON handles DELETE /api/sessions/:session
func (h *PageHandler) DeleteSessionJSON(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	if err := h.deleteSession(c, sess.ID); err != nil {
		response.Internal(c, err)
		return
	}
	response.OK(c, gin.H{"session_id": sess.ID, "discarded": true})
}

func (h *PageHandler) deleteSession(c *gin.Context, id string) error {
	ctx := c.Request.Context()
	if err := h.sessions.Delete(ctx, id); err != nil {
		h.log.WithContext(ctx).Error("Failed to discard editing session", zap.String("session_id", id), zap.Error(err))
		return err
	}
	h.recorder.SessionDiscarded()
	return nil
}

// SessionJSON handles GET /api/sessions/:session
func (h *PageHandler) SessionJSON(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	response.OK(c, sessionBody(sess))
}

// ActionJSON handles POST /api/sessions/:session/actions with a JSON command
func (h *PageHandler) ActionJSON(c *gin.Context) {
	var cmd editor.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.Fail(c, response.CodeBadRequest, "Invalid editor command")
		return
	}

	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	if err := h.apply(c, sess, cmd); err != nil {
		if errors.Is(err, editor.ErrUnknownAction) {
			response.Fail(c, response.CodeBadRequest, err.Error())
			return
		}
		response.Internal(c, err)
		return
	}

	response.OK(c, sessionBody(sess))
}

func sessionBody(sess *repository.Session) gin.H {
	return gin.H{
		"session_id": sess.ID,
		"event":      sess.Editor.Record(),
		"editor":     sess.Editor.Snapshot(),
	}
}

func (h *PageHandler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrSessionNotFound) {
		response.Fail(c, response.CodeNotFound, "Editing session not found")
		return
	}
	h.log.WithContext(c.Request.Context()).Error("Failed to load editing session", zap.Error(err))
	response.Internal(c, err)
}

// apply dispatches cmd and stores the session. Commands the editor refuses
// leave the state unchanged and are not an error for the caller.
func (h *PageHandler) apply(c *gin.Context, sess *repository.Session, cmd editor.Command) error {
	ctx := c.Request.Context()
	log := h.log.WithContext(ctx).With(
		zap.String("session_id", sess.ID),
		zap.String("action", cmd.Action),
	)

	if err := sess.Editor.Dispatch(cmd); err != nil {
		if errors.Is(err, editor.ErrUnknownAction) {
			h.recorder.EditorAction(unknownActionLabel, resultUnknown)
			return err
		}
		h.recorder.EditorAction(cmd.Action, resultRejected)
		log.Debug("Editor command rejected", zap.Error(err))
	} else {
		h.recorder.EditorAction(cmd.Action, resultApplied)
	}

	sess.UpdatedAt = h.now()
	if err := h.sessions.Save(ctx, sess); err != nil {
		log.Error("Failed to store editing session", zap.Error(err))
		return err
	}
	return nil
}

// loadSession resolves the :session param and checks it belongs to :id
func (h *PageHandler) loadSession(c *gin.Context) (*repository.Session, bool) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			h.log.WithContext(c.Request.Context()).Error("Failed to load editing session", zap.Error(err))
		}
		return nil, false
	}
	if sess.EventKey != c.Param("id") {
		return nil, false
	}
	return sess, true
}

func (h *PageHandler) notFound(c *gin.Context) {
	h.recorder.PageRendered("not_found")
	c.HTML(http.StatusNotFound, view.TemplateNotFound, view.NotFoundPage{BackURL: "/"})
}
