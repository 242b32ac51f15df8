package collab

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/inkwell/document"
)

// Envelope is one unit of synchronization: a batch of steps produced by
// one client, stamped with the document version the batch starts from.
type Envelope struct {
	// Version is the local document version before the steps apply.
	Version int

	// ClientID identifies the producing client.
	ClientID string

	// Steps are the document changes, in application order.
	Steps []document.Step

	// Origins labels the transactions that produced the steps (e.g.
	// "input", "paste"). Optional.
	Origins []string
}

// wireEnvelope is the JSON shape of an Envelope. Steps are serialized
// through the document step codec.
type wireEnvelope struct {
	Version  int               `json:"version"`
	ClientID string            `json:"clientId"`
	Steps    []json.RawMessage `json:"steps"`
	Origins  []string          `json:"origins,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	w := wireEnvelope{
		Version:  e.Version,
		ClientID: e.ClientID,
		Steps:    make([]json.RawMessage, 0, len(e.Steps)),
		Origins:  e.Origins,
	}
	for i, s := range e.Steps {
		raw, err := document.MarshalStep(s)
		if err != nil {
			return nil, fmt.Errorf("envelope step %d: %w", i, err)
		}
		w.Steps = append(w.Steps, raw)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	steps := make([]document.Step, 0, len(w.Steps))
	for i, raw := range w.Steps {
		s, err := document.UnmarshalStep(raw)
		if err != nil {
			return fmt.Errorf("envelope step %d: %w", i, err)
		}
		steps = append(steps, s)
	}
	e.Version = w.Version
	e.ClientID = w.ClientID
	e.Steps = steps
	e.Origins = w.Origins
	return nil
}
