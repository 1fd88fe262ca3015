package squads

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Metadata is stored as JSON in the multisig's meta field.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Encode returns the compact JSON form of m without HTML escaping.
func (m Metadata) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", errors.Wrap(err, "error encoding multisig metadata")
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
