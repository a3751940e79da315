package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
)

// EntityType is the message type for document entity payloads.
var EntityType = message.Type{Domain: "graph", Category: "entity", Version: "v1"}

// RegisterPayloads registers the graph payload types with the supplied
// registry. Publishing does not require it; consumers that deserialize
// entity messages wire this in during bootstrap.
func RegisterPayloads(reg *payloadregistry.Registry) error {
	registration := &payloadregistry.Registration{
		Domain:      EntityType.Domain,
		Category:    EntityType.Category,
		Version:     EntityType.Version,
		Description: "Document entity payload with line provenance triples",
		Factory:     func() any { return &EntityPayload{} },
	}
	if err := reg.Register(registration); err != nil {
		return fmt.Errorf("register %s: %w", EntityType.Key(), err)
	}
	return nil
}

// EntityPayload implements message.Payload for one subject's cleaned
// triples. PublishGraph emits one payload per subject in the document.
type EntityPayload struct {
	Subject    string           `json:"id"`
	TripleData []message.Triple `json:"triples"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// EntityID returns the subject this payload describes.
func (e *EntityPayload) EntityID() string { return e.Subject }

// Triples returns the subject's triples.
func (e *EntityPayload) Triples() []message.Triple { return e.TripleData }

// Schema returns the message type.
func (e *EntityPayload) Schema() message.Type { return EntityType }

// Validate checks the payload before publishing.
func (e *EntityPayload) Validate() error {
	if e.Subject == "" {
		return errors.New("entity subject is required")
	}
	if len(e.TripleData) == 0 {
		return errors.New("entity has no triples")
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e *EntityPayload) MarshalJSON() ([]byte, error) {
	type Alias EntityPayload
	return json.Marshal((*Alias)(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EntityPayload) UnmarshalJSON(data []byte) error {
	type Alias EntityPayload
	return json.Unmarshal(data, (*Alias)(e))
}
