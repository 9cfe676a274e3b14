package editor

import (
	"errors"
	"fmt"
)

// ErrUnknownAction is returned by Dispatch for unrecognized action names
var ErrUnknownAction = errors.New("unknown editor action")

// Action names accepted by Dispatch
const (
	ActionTitleBegin  = "title.begin"
	ActionTitleSave   = "title.save"
	ActionTitleCancel = "title.cancel"

	ActionDateBegin  = "date.begin"
	ActionDateSave   = "date.save"
	ActionDateCancel = "date.cancel"

	ActionDescriptionBegin  = "description.begin"
	ActionDescriptionSave   = "description.save"
	ActionDescriptionCancel = "description.cancel"

	ActionArtistBegin     = "artist.begin"
	ActionArtistSave      = "artist.save"
	ActionArtistCancel    = "artist.cancel"
	ActionArtistRemove    = "artist.remove"
	ActionArtistAddOpen   = "artist.add_open"
	ActionArtistAdd       = "artist.add"
	ActionArtistAddCancel = "artist.add_cancel"

	ActionCodeBegin     = "code.begin"
	ActionCodeSave      = "code.save"
	ActionCodeCancel    = "code.cancel"
	ActionCodeRemove    = "code.remove"
	ActionCodeAddOpen   = "code.add_open"
	ActionCodeAdd       = "code.add"
	ActionCodeAddCancel = "code.add_cancel"

	ActionLightboxOpen      = "lightbox.open"
	ActionLightboxClose     = "lightbox.close"
	ActionLightboxZoomIn    = "lightbox.zoom_in"
	ActionLightboxZoomOut   = "lightbox.zoom_out"
	ActionLightboxZoomReset = "lightbox.zoom_reset"
	ActionLightboxDragStart = "lightbox.drag_start"
	ActionLightboxDragMove  = "lightbox.drag_move"
	ActionLightboxDragEnd   = "lightbox.drag_end"
)

// Command is one user gesture. Save actions carry the draft in Value (and Genre
// for artists) so a single form post both updates the buffer and commits it.
type Command struct {
	Action string  `json:"action" form:"action"`
	Index  int     `json:"index" form:"index"`
	Value  string  `json:"value" form:"value"`
	Genre  string  `json:"genre" form:"genre"`
	X      float64 `json:"x" form:"x"`
	Y      float64 `json:"y" form:"y"`
}

// Dispatch applies cmd to the editor
func (e *Editor) Dispatch(cmd Command) error {
	switch cmd.Action {
	case ActionTitleBegin:
		e.BeginTitle()
	case ActionTitleSave:
		return draftThen(e.SetTitleDraft(cmd.Value), e.SaveTitle)
	case ActionTitleCancel:
		e.CancelTitle()

	case ActionDateBegin:
		e.BeginDate()
	case ActionDateSave:
		return draftThen(e.SetDateDraft(cmd.Value), e.SaveDate)
	case ActionDateCancel:
		e.CancelDate()

	case ActionDescriptionBegin:
		e.BeginDescription()
	case ActionDescriptionSave:
		return draftThen(e.SetDescriptionDraft(cmd.Value), e.SaveDescription)
	case ActionDescriptionCancel:
		e.CancelDescription()

	case ActionArtistBegin:
		return e.BeginArtist(cmd.Index)
	case ActionArtistSave:
		return draftThen(e.SetArtistDraft(cmd.Value, cmd.Genre), e.SaveArtist)
	case ActionArtistCancel:
		e.CancelArtist()
	case ActionArtistRemove:
		return e.RemoveArtist(cmd.Index)
	case ActionArtistAddOpen:
		e.OpenAddArtist()
	case ActionArtistAdd:
		if err := e.SetNewArtistDraft(cmd.Value, cmd.Genre); err != nil {
			return err
		}
		_, err := e.AddArtist()
		return err
	case ActionArtistAddCancel:
		e.CancelAddArtist()

	case ActionCodeBegin:
		return e.BeginCode(cmd.Index)
	case ActionCodeSave:
		return draftThen(e.SetCodeDraft(cmd.Value), e.SaveCode)
	case ActionCodeCancel:
		e.CancelCode()
	case ActionCodeRemove:
		return e.RemoveCode(cmd.Index)
	case ActionCodeAddOpen:
		e.OpenAddCode()
	case ActionCodeAdd:
		if err := e.SetNewCodeDraft(cmd.Value); err != nil {
			return err
		}
		_, err := e.AddCode()
		return err
	case ActionCodeAddCancel:
		e.CancelAddCode()

	case ActionLightboxOpen:
		e.OpenLightbox()
	case ActionLightboxClose:
		e.CloseLightbox()
	case ActionLightboxZoomIn:
		e.ZoomIn()
	case ActionLightboxZoomOut:
		e.ZoomOut()
	case ActionLightboxZoomReset:
		e.ResetZoom()
	case ActionLightboxDragStart:
		e.StartDrag(cmd.X, cmd.Y)
	case ActionLightboxDragMove:
		e.DragTo(cmd.X, cmd.Y)
	case ActionLightboxDragEnd:
		e.EndDrag()

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return nil
}

func draftThen(draftErr error, save func() error) error {
	if draftErr != nil {
		return draftErr
	}
	return save()
}
