// Package control handles the pad websocket protocol and dispatches gestures.
package control

import "encoding/json"

// Inbound message types.
const (
	MsgEvent        = "ev"
	MsgSmooth       = "smooth"
	MsgInputEnabled = "inputEnabled"
)

// Areas of the touch page that produce events.
const (
	AreaMove   = "move"
	AreaScroll = "scroll"
	AreaButton = "button"
)

// Message is a pad websocket payload.
type Message struct {
	T       string          `json:"t"`
	Area    string          `json:"area,omitempty"`
	Button  string          `json:"button,omitempty"`
	Ev      json.RawMessage `json:"ev,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
}

// Feedback is a message sent back to the pad page.
type Feedback struct {
	T         string  `json:"t"`
	Area      string  `json:"area,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
	Text      string  `json:"text,omitempty"`
	Highlight bool    `json:"highlight,omitempty"`
	Button    string  `json:"button,omitempty"`
	Held      bool    `json:"held,omitempty"`
	Toggled   bool    `json:"toggled,omitempty"`
	Ready     *bool   `json:"ready,omitempty"`
}
