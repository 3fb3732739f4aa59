package broadcast

// Event is the outbound frame envelope. It is encoded as {"type": ..., "payload": ...}.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func NewEvent(eventType string, payload any) *Event {
	return &Event{
		Type:    eventType,
		Payload: payload,
	}
}
