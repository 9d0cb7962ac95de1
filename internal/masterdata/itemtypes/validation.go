package itemtypes

import (
	"strings"
	"unicode/utf8"

	"github.com/odyssey-erp/shiptrack/internal/shared"
)

func normalize(in Input) (Input, error) {
	verr := shared.NewValidationError()
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		verr.Add("name", "is required")
	} else if utf8.RuneCountInString(in.Name) > 200 {
		verr.Add("name", "must be at most 200 characters")
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			in.Description = nil
		} else {
			if utf8.RuneCountInString(desc) > 1000 {
				verr.Add("description", "must be at most 1000 characters")
			}
			in.Description = &desc
		}
	}
	return in, verr.OrNil()
}
