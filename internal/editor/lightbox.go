package editor

// Zoom limits of the image lightbox
const (
	MinScale     = 0.5
	MaxScale     = 5.0
	DefaultScale = 1.0
	ScaleStep    = 0.5
)

// Point is a 2D pan offset or cursor position
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Lightbox is the zoom and pan state of the primary image viewer.
// Closing always restores the default scale and offset.
type Lightbox struct {
	IsOpen   bool    `json:"open"`
	Scale    float64 `json:"scale"`
	Offset   Point   `json:"offset"`
	Dragging bool    `json:"dragging"`
	Anchor   Point   `json:"anchor"`
}

// NewLightbox returns a closed lightbox
func NewLightbox() Lightbox {
	return Lightbox{Scale: DefaultScale}
}

// Open shows the lightbox
func (l *Lightbox) Open() {
	l.IsOpen = true
	if l.Scale == 0 {
		l.Scale = DefaultScale
	}
}

// Close hides the lightbox and resets zoom and pan
func (l *Lightbox) Close() {
	*l = NewLightbox()
}

// ZoomIn raises the scale by one step up to MaxScale
func (l *Lightbox) ZoomIn() bool {
	if !l.IsOpen {
		return false
	}
	l.setScale(l.Scale + ScaleStep)
	return true
}

// ZoomOut lowers the scale by one step down to MinScale
func (l *Lightbox) ZoomOut() bool {
	if !l.IsOpen {
		return false
	}
	l.setScale(l.Scale - ScaleStep)
	return true
}

// ResetZoom restores the default scale and recenters the image
func (l *Lightbox) ResetZoom() {
	l.Scale = DefaultScale
	l.Offset = Point{}
	l.Dragging = false
}

// setScale clamps; at or below 1.0 the image is recentered since it cannot be dragged
func (l *Lightbox) setScale(s float64) {
	l.Scale = min(MaxScale, max(MinScale, s))
	if l.Scale <= DefaultScale {
		l.Offset = Point{}
		l.Dragging = false
	}
}

// CanDrag reports whether panning is allowed
func (l Lightbox) CanDrag() bool {
	return l.IsOpen && l.Scale > DefaultScale
}

// StartDrag anchors a drag at the cursor position
func (l *Lightbox) StartDrag(cursor Point) bool {
	if !l.CanDrag() {
		return false
	}
	l.Dragging = true
	l.Anchor = Point{X: cursor.X - l.Offset.X, Y: cursor.Y - l.Offset.Y}
	return true
}

// DragTo moves the image by the cursor delta from the anchor
func (l *Lightbox) DragTo(cursor Point) bool {
	if !l.Dragging {
		return false
	}
	l.Offset = Point{X: cursor.X - l.Anchor.X, Y: cursor.Y - l.Anchor.Y}
	return true
}

// EndDrag stops dragging, on release or when the cursor leaves the surface
func (l *Lightbox) EndDrag() {
	l.Dragging = false
	l.Anchor = Point{}
}
