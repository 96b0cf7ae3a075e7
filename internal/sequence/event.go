// Package sequence turns resolved commands into ordered output events with
// the configured inter-event delays.
package sequence

// EventKind identifies one primitive executor instruction.
type EventKind string

const (
	EventTypeText   EventKind = "type_text"
	EventPressKey   EventKind = "press_key"
	EventPressCombo EventKind = "press_combo"
)

// OutputEvent is one instruction to the external executor. AfterDelayMS is
// honored before the *next* event is sent, not before this one; the final
// event of a command carries no delay.
type OutputEvent struct {
	Kind         EventKind `json:"kind"`
	Value        string    `json:"value"`
	AfterDelayMS int64     `json:"after_delay_ms"`
}
