package tooltip

// Tooltip box dimensions and anchoring, in canvas pixels.
const (
	Width         = 320.0
	DefaultHeight = 200.0
	BottomOffset  = 240.0
)

// Placement is the top-left corner of the tooltip box.
type Placement struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Place positions a tooltip of the given height on a canvas. A non-positive
// height uses [DefaultHeight]. The result may be negative on small
// canvases; callers clamp if their surface requires it.
func Place(canvasWidth, canvasHeight, tooltipHeight float64) Placement {
	if tooltipHeight <= 0 {
		tooltipHeight = DefaultHeight
	}
	return Placement{
		Left: canvasWidth/2 - Width/2,
		Top:  canvasHeight - tooltipHeight - BottomOffset,
	}
}
