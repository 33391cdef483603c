package gesture

// Phase is the stage of a pointer gesture.
type Phase int

const (
	Press Phase = iota + 1
	Move
	Release
)

// PhaseOf maps a browser event type to a gesture phase.
func PhaseOf(eventType string) (Phase, bool) {
	switch eventType {
	case "touchstart", "mousedown", "pointerdown":
		return Press, true
	case "touchmove", "mousemove", "pointermove":
		return Move, true
	case "touchend", "touchcancel", "mouseup", "mouseleave", "pointerup", "pointercancel":
		return Release, true
	default:
		return 0, false
	}
}
