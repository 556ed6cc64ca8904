package server

const (
	messagePartial = "partial"
	messageFinal   = "final"
	controlDone    = "done"
)

// controlMessage is an inbound text frame from the streaming client.
type controlMessage struct {
	Type string `json:"type"`
}

// resultMessage is an outbound transcript frame.
type resultMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
