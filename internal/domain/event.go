package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action is a canonical-record mutation kind.
type Action string

// Mutation actions delivered by the CMS hook framework.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return a, nil
	default:
		return "", fmt.Errorf("action %q: %w", s, ErrUnsupportedAction)
	}
}

// Event is the metadata of one mutation notification. Depending on the event
// source the primary key arrives either as Key or as the first element of Keys.
type Event struct {
	Key     FlexKey        `json:"key"`
	Keys    []FlexKey      `json:"keys"`
	Payload map[string]any `json:"payload"`
}

// ResolveKey returns the primary key the event refers to.
func (e Event) ResolveKey() (string, error) {
	if e.Key != "" {
		return string(e.Key), nil
	}
	for _, k := range e.Keys {
		if k != "" {
			return string(k), nil
		}
	}
	return "", ErrMissingKey
}

// FlexKey is a primary key that may be encoded as a JSON string or number.
type FlexKey string

// UnmarshalJSON accepts strings, numbers and null.
func (k *FlexKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode key: %w", err)
		}
		*k = FlexKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	*k = FlexKey(n.String())
	return nil
}
