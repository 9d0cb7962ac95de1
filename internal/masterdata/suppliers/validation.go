package suppliers

import (
	"strings"
	"unicode/utf8"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

const (
	maxNameLength    = 200
	maxContactLength = 500
	maxCountryLength = 100
)

func normalize(in Input) (Input, error) {
	verr := shared.NewValidationError()
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		verr.Add("name", "is required")
	case utf8.RuneCountInString(in.Name) > maxNameLength:
		verr.Add("name", "must be at most 200 characters")
	}
	in.ContactInfo = optional(in.ContactInfo)
	if in.ContactInfo != nil && utf8.RuneCountInString(*in.ContactInfo) > maxContactLength {
		verr.Add("contactInfo", "must be at most 500 characters")
	}
	in.DefaultCountry = optional(in.DefaultCountry)
	if in.DefaultCountry != nil && utf8.RuneCountInString(*in.DefaultCountry) > maxCountryLength {
		verr.Add("defaultCountry", "must be at most 100 characters")
	}
	return in, verr.OrNil()
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
