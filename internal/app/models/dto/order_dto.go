package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MaxOrder is the largest position the order columns hold
const MaxOrder = math.MaxInt32

// ErrInvalidOrderBody is returned for bodies that are not an object of integers in [0, MaxOrder]
var ErrInvalidOrderBody = errors.New("order body must be a JSON object mapping ids to integer positions")

// OrderEntry is one id -> position pair
type OrderEntry struct {
	ID    int64
	Order int
}

// OrderRequest keeps pairs in the order they appear in the request body.
// Keys that are not integers are dropped.
type OrderRequest struct {
	Entries []OrderEntry
}

func (r *OrderRequest) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrderBody, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrInvalidOrderBody
	}

	entries := make([]OrderEntry, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOrderBody, err)
		}
		key, _ := keyTok.(string)

		var order int64
		if err := dec.Decode(&order); err != nil {
			return fmt.Errorf("%w: value for %q: %v", ErrInvalidOrderBody, key, err)
		}
		// the whole body is checked before any row is touched
		if order < 0 || order > MaxOrder {
			return fmt.Errorf("%w: value for %q is outside [0, %d]", ErrInvalidOrderBody, key, MaxOrder)
		}

		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, OrderEntry{ID: id, Order: int(order)})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrderBody, err)
	}

	r.Entries = entries
	return nil
}

// SavedResponse is the fixed answer of the ordering endpoints
type SavedResponse struct {
	Saved string `json:"saved" example:"OK"`
}
