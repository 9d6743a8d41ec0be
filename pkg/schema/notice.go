package schema

import (
	"encoding/json"
	"errors"
	"time"
)

// Notice is a non-fatal, user-visible failure attached to a character.
type Notice struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`

	Error error `json:"-"`
}

type noticeAlias struct {
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
	Error   string    `json:"error,omitzero"`
}

func (n *Notice) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}

	a := noticeAlias{
		Kind:    n.Kind,
		Message: n.Message,
		At:      n.At,
	}
	if n.Error != nil {
		a.Error = n.Error.Error()
	}

	return json.Marshal(a)
}

func (n *Notice) UnmarshalJSON(data []byte) error {
	var a noticeAlias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	n.Kind = a.Kind
	n.Message = a.Message
	n.At = a.At
	if a.Error != "" {
		n.Error = errors.New(a.Error)
	}

	return nil
}
