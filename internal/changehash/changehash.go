// Package changehash computes the digest that polling endpoints hand back to
// clients so they can skip re-rendering when a snapshot has not changed.
// The digest is a refresh hint only and carries no integrity guarantee.
package changehash

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Compute returns the hex xxhash64 of payload's canonical JSON form.
func Compute(payload any) (string, error) {
	canonical, err := Canonical(payload)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(canonical), 16), nil
}

// HasChanged computes the hash of payload and reports whether it differs
// from previous. An empty previous always counts as changed.
func HasChanged(previous string, payload any) (string, bool, error) {
	hash, err := Compute(payload)
	if err != nil {
		return "", false, err
	}
	return hash, previous == "" || previous != hash, nil
}

// Canonical marshals payload, then re-encodes it through a generic value so
// that object keys are sorted at every depth regardless of the source type.
func Canonical(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
