package domain

import "strings"

// Violation is one failed rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations collects every failed rule instead of stopping at the first one.
type Violations []Violation

func (v *Violations) Add(field, message string) {
	*v = append(*v, Violation{Field: field, Message: message})
}

// Append merges other into v.
func (v *Violations) Append(other Violations) {
	*v = append(*v, other...)
}

func (v Violations) Empty() bool {
	return len(v) == 0
}

// Err returns a validation error, or nil when no rule failed.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return Invalid(v)
}

// Summary joins the messages into a single line.
func (v Violations) Summary() string {
	if v.Empty() {
		return "invalid input"
	}
	msgs := make([]string, 0, len(v))
	for _, x := range v {
		msgs = append(msgs, x.Message)
	}
	return "invalid input: " + strings.Join(msgs, ", ")
}
