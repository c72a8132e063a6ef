package postgres

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// pageCursor is the decoded form of the opaque page cursor: the sort-key
// values of the last item on the previous page. Clients must treat the
// encoded token as opaque.
type pageCursor struct {
	UpdatedAt time.Time `json:"u"`
	ID        string    `json:"i"`
}

func encodeCursor(updatedAt time.Time, id string) string {
	data, _ := json.Marshal(pageCursor{UpdatedAt: updatedAt, ID: id})
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodeCursor(s string) (*pageCursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decoding cursor: %w", err)
	}
	var c pageCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding cursor: %w", err)
	}
	if c.ID == "" {
		return nil, fmt.Errorf("decoding cursor: missing position")
	}
	return &c, nil
}
