// Package validation implements ordered per-field rule chains. Each rule
// inspects one field and yields a structured field error or nothing; an
// endpoint runs its rules in declaration order and aggregates every failure
// before responding, so clients get one entry per failing field.
package validation

import (
	"regexp"
	"strings"

	apperrors "github.com/feedbackhq/feedback-collector/errors"
)

// Rule checks a single field and returns nil when it passes.
type Rule func() *apperrors.FieldError

var (
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Run evaluates rules in order and collects every failure.
func Run(rules ...Rule) []apperrors.FieldError {
	var fields []apperrors.FieldError
	for _, rule := range rules {
		if fe := rule(); fe != nil {
			fields = append(fields, *fe)
		}
	}
	return fields
}

// Required fails when the trimmed value is empty.
func Required(field, value, message string) Rule {
	return func() *apperrors.FieldError {
		if strings.TrimSpace(value) == "" {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// MinLength fails when the trimmed value is shorter than min runes.
func MinLength(field, value string, min int, message string) Rule {
	return func() *apperrors.FieldError {
		if len([]rune(strings.TrimSpace(value))) < min {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// OptionalMinLength applies MinLength only when the value is non-empty.
func OptionalMinLength(field, value string, min int, message string) Rule {
	return func() *apperrors.FieldError {
		v := strings.TrimSpace(value)
		if v == "" {
			return nil
		}
		if len([]rune(v)) < min {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// OptionalEmail fails when a non-empty value does not look like an email
// address. The shape check is deliberately loose; deliverability is not our
// problem here.
func OptionalEmail(field, value, message string) Rule {
	return func() *apperrors.FieldError {
		v := strings.TrimSpace(value)
		if v == "" {
			return nil
		}
		if !emailPattern.MatchString(v) {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// Email fails when the value is empty or not email-shaped.
func Email(field, value, message string) Rule {
	return func() *apperrors.FieldError {
		if !emailPattern.MatchString(strings.TrimSpace(value)) {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// IntRange fails when value lies outside [min, max].
func IntRange(field string, value, min, max int, message string) Rule {
	return func() *apperrors.FieldError {
		if value < min || value > max {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}

// OptionalHexColor fails when a non-empty value is not a #RGB or #RRGGBB hex
// color.
func OptionalHexColor(field, value, message string) Rule {
	return func() *apperrors.FieldError {
		v := strings.TrimSpace(value)
		if v == "" {
			return nil
		}
		if !hexColorPattern.MatchString(v) {
			return &apperrors.FieldError{Field: field, Message: message}
		}
		return nil
	}
}
