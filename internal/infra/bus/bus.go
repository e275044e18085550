package bus

import (
	"context"
	"encoding/json"
)

// Message is the envelope every notification travels in.
type Message struct {
	Pattern string          `json:"pattern"`
	Origin  string          `json:"origin"`
	ID      string          `json:"id,omitempty"`
	Data    json.RawMessage `json:"data"`
}

func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

type Handler func(ctx context.Context, msg Message)

type Publisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

// Subscriber delivers messages published by other contexts only.
type Subscriber interface {
	Subscribe(pattern string, h Handler) (cancel func(), err error)
}

type Bus interface {
	Publisher
	Subscriber
}
