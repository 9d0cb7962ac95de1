package suppliers

import (
	"time"
)

// Supplier represents a vendor that ships goods.
type Supplier struct {
	ID             int64
	Name           string
	ContactInfo    *string
	DefaultCountry *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Input carries the writable supplier fields.
type Input struct {
	Name           string
	ContactInfo    *string
	DefaultCountry *string
}

// Patch carries the fields of a partial update. Nil fields are left as is.
type Patch struct {
	Name           *string
	ContactInfo    *string
	DefaultCountry *string
}

func (p Patch) apply(s Supplier) Input {
	in := Input{Name: s.Name, ContactInfo: s.ContactInfo, DefaultCountry: s.DefaultCountry}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.ContactInfo != nil {
		in.ContactInfo = p.ContactInfo
	}
	if p.DefaultCountry != nil {
		in.DefaultCountry = p.DefaultCountry
	}
	return in
}
