package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID           string
	CollectionID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Data         json.RawMessage
}

// Decode unmarshals the document body into v
func (d *Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	return nil
}

type DocumentList struct {
	Total     int
	Documents []Document
}

type User struct {
	ID        string    `json:"$id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"$createdAt"`
}

type UserList struct {
	Total int    `json:"total"`
	Users []User `json:"users"`
}

type File struct {
	ID        string    `json:"$id"`
	BucketID  string    `json:"bucketId"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeOriginal"`
	CreatedAt time.Time `json:"$createdAt"`
}

type Receipt struct {
	ID     string `json:"$id"`
	Status string `json:"status"`
}

// UniqueID returns an identifier accepted by every driver
func UniqueID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Marshal encodes a document body. Drivers use it so a raw message passes through untouched.
func Marshal(data any) (json.RawMessage, error) {
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return raw, nil
}

// Merge overlays a partial update onto a stored document body
func Merge(current, patch json.RawMessage) (json.RawMessage, error) {
	base := map[string]json.RawMessage{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &base); err != nil {
			return nil, fmt.Errorf("failed to decode stored document: %w", err)
		}
	}
	var update map[string]json.RawMessage
	if err := json.Unmarshal(patch, &update); err != nil {
		return nil, fmt.Errorf("failed to decode document update: %w", err)
	}
	for k, v := range update {
		base[k] = v
	}
	return json.Marshal(base)
}
