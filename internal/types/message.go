package types

// Message is one entry in the read-only chat feed. Messages are written by
// the webhook and only ever displayed, never edited.
type Message struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"userId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func CloneMessage(m *Message) *Message {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}
