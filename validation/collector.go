package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/toolbox/errors"
)

// FieldError is a failed check on one attribute.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates field errors in the order they are added. Rules and
// Struct report their failures through it.
type Collector struct {
	fields []FieldError
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Add records a failure for field. The first message per field wins.
func (c *Collector) Add(field, message string) *Collector {
	for _, f := range c.fields {
		if f.Field == field {
			return c
		}
	}
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
	return c
}

func (c *Collector) HasErrors() bool {
	return len(c.fields) > 0
}

func (c *Collector) Errors() []FieldError {
	return c.fields
}

// Err returns a validation AppError listing every field, or nil.
func (c *Collector) Err() error {
	if !c.HasErrors() {
		return nil
	}
	messages := make([]string, len(c.fields))
	for i, f := range c.fields {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", c.fields)
}
