package model

import (
	"strings"
)

// ValidationError reports missing or malformed input fields. It is never
// retried; the API surface renders it as a 400 with Error() as the message.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "Missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "Invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "Invalid input"
	}
	return strings.Join(parts, "; ")
}

// fieldErrors accumulates problems while an input is checked.
type fieldErrors struct {
	missing []string
	invalid []string
}

func (f *fieldErrors) miss(name string)     { f.missing = append(f.missing, name) }
func (f *fieldErrors) invalidf(name string) { f.invalid = append(f.invalid, name) }

func (f *fieldErrors) err() error {
	if len(f.missing) == 0 && len(f.invalid) == 0 {
		return nil
	}
	return &ValidationError{Missing: f.missing, Invalid: f.invalid}
}

// requireText checks a string field: absent or blank is missing when
// required; present but blank is always invalid on a patch.
func (f *fieldErrors) requireText(name string, v *string, required bool) {
	switch {
	case v == nil:
		if required {
			f.miss(name)
		}
	case strings.TrimSpace(*v) == "":
		if required {
			f.miss(name)
		} else {
			f.invalidf(name)
		}
	}
}
