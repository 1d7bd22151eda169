package model

import (
	"encoding/json"
	"time"
)

// Base contains the metadata the backend stamps on every document
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ref is a reference to another document. The backend may return either the
// bare id or the expanded related document; both decode to the id.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		var doc struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		*r = Ref(doc.ID)
		return nil
	}
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*r = Ref(id)
	return nil
}

func (r Ref) String() string {
	return string(r)
}
