package itemtypes

import "time"

// ItemType classifies goods for customs duty aggregation.
type ItemType struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input carries the writable item type fields.
type Input struct {
	Name        string
	Description *string
}

// Patch carries the fields of a partial update.
type Patch struct {
	Name        *string
	Description *string
}

func (p Patch) apply(it ItemType) Input {
	in := Input{Name: it.Name, Description: it.Description}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Description != nil {
		in.Description = p.Description
	}
	return in
}
