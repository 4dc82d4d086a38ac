package forms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Fixed-form matchers shared by every screen's field schema.
var (
	EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	URLPattern   = regexp.MustCompile(`^https?://\S+$`)
	// PhonePattern accepts digits, spaces, hyphens, parentheses and an
	// optional leading +.
	PhonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s()\-]*$`)
)

// File is the value a file-presence field resolves to when a binary has been
// selected but not yet persisted.
type File struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Rule is the closed per-field rule record. Zero values mean "not constrained".
type Rule struct {
	Required  bool
	MinLength int
	MaxLength int
	Min       *int
	Max       *int
	IsFile    bool
	Pattern   *regexp.Regexp
}

// IntRange is a convenience for numeric bounds.
func IntRange(min, max int) (*int, *int) {
	return &min, &max
}

// FieldError reports the first failing field of a validation run. Field is
// the focus target the caller scrolls into view.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldSpec binds a field name to its rule and display label.
type FieldSpec struct {
	Name  string
	Label string
	Rule  Rule
}

// Validate evaluates a single field value against its rule. The value is a
// string for scalar fields; file-presence fields additionally accept a File
// (new upload) or a non-empty string URL (kept existing image).
// Evaluation is pure and deterministic; nil means the field passed.
func Validate(field, label string, value interface{}, rule Rule) *FieldError {
	if rule.IsFile {
		return validateFile(field, label, value, rule)
	}

	s, ok := value.(string)
	if !ok {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s has an invalid value", label)}
	}

	// Empty optional fields pass every remaining check; empty required
	// fields fail here. Numeric fields hit this path too, so an empty
	// string means "missing", never zero.
	if strings.TrimSpace(s) == "" {
		if rule.Required {
			return &FieldError{Field: field, Message: fmt.Sprintf("%s is required", label)}
		}
		return nil
	}

	if rule.Min != nil || rule.Max != nil {
		return validateNumeric(field, label, s, rule)
	}

	var rules []validation.Rule
	if rule.MinLength > 0 || rule.MaxLength > 0 {
		rules = append(rules, validation.Length(rule.MinLength, rule.MaxLength).
			Error(lengthMessage(label, rule.MinLength, rule.MaxLength)))
	}
	if rule.Pattern != nil {
		rules = append(rules, validation.Match(rule.Pattern).
			Error(fmt.Sprintf("%s has an invalid format", label)))
	}

	if err := validation.Validate(s, rules...); err != nil {
		return &FieldError{Field: field, Message: err.Error()}
	}
	return nil
}

func validateNumeric(field, label, s string, rule Rule) *FieldError {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must be a number", label)}
	}

	var rules []validation.Rule
	if rule.Min != nil {
		rules = append(rules, validation.Min(*rule.Min).
			Error(fmt.Sprintf("%s must be at least %d", label, *rule.Min)))
	}
	if rule.Max != nil {
		rules = append(rules, validation.Max(*rule.Max).
			Error(fmt.Sprintf("%s must be at most %d", label, *rule.Max)))
	}

	if err := validation.Validate(n, rules...); err != nil {
		return &FieldError{Field: field, Message: err.Error()}
	}
	return nil
}

func validateFile(field, label string, value interface{}, rule Rule) *FieldError {
	switch v := value.(type) {
	case File:
		if v.Name == "" && rule.Required {
			return &FieldError{Field: field, Message: fmt.Sprintf("%s image is required", label)}
		}
		return nil
	case string:
		// A non-empty string means an already-persisted URL kept from the
		// original record (edit flow).
		if strings.TrimSpace(v) == "" && rule.Required {
			return &FieldError{Field: field, Message: fmt.Sprintf("%s image is required", label)}
		}
		return nil
	case nil:
		if rule.Required {
			return &FieldError{Field: field, Message: fmt.Sprintf("%s image is required", label)}
		}
		return nil
	default:
		return &FieldError{Field: field, Message: fmt.Sprintf("%s has an invalid value", label)}
	}
}

// ValidateSet runs a field set in declaration order and short-circuits on the
// first failure, so only one error is ever surfaced at a time.
func ValidateSet(specs []FieldSpec, value func(name string) interface{}) *FieldError {
	for _, spec := range specs {
		if err := Validate(spec.Name, spec.Label, value(spec.Name), spec.Rule); err != nil {
			return err
		}
	}
	return nil
}

func lengthMessage(label string, min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s must be between %d and %d characters", label, min, max)
	case min > 0:
		return fmt.Sprintf("%s must be at least %d characters", label, min)
	default:
		return fmt.Sprintf("%s must be at most %d characters", label, max)
	}
}
