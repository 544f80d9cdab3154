package validation

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/toolbox/errors"
)

// Validator checks attribute maps before they are persisted. Errors are
// returned to the caller unchanged.
type Validator interface {
	Validate(ctx context.Context, attrs map[string]any) error
	ValidateForUpdate(ctx context.Context, attrs map[string]any) error
}

// Nop accepts everything.
type Nop struct{}

func (Nop) Validate(context.Context, map[string]any) error          { return nil }
func (Nop) ValidateForUpdate(context.Context, map[string]any) error { return nil }

// Rules validates attribute maps against go-playground tag strings keyed by
// attribute name:
//
//	validation.Rules{"name": "required,alpha_spaces,max=64", "email": "omitempty,email"}
//
// On create every rule is checked. On update only supplied attributes are
// checked and "required" is dropped.
type Rules map[string]string

func (r Rules) Validate(ctx context.Context, attrs map[string]any) error {
	rules := make(map[string]interface{}, len(r))
	for field, tag := range r {
		rules[field] = tag
	}
	return mapErrors(getValidator().ValidateMapCtx(ctx, attrs, rules))
}

func (r Rules) ValidateForUpdate(ctx context.Context, attrs map[string]any) error {
	rules := make(map[string]interface{}, len(attrs))
	for field := range attrs {
		tag, ok := r[field]
		if !ok {
			continue
		}
		if tag = stripRequired(tag); tag != "" {
			rules[field] = tag
		}
	}
	return mapErrors(getValidator().ValidateMapCtx(ctx, attrs, rules))
}

func stripRequired(tag string) string {
	parts := strings.Split(tag, ",")
	kept := parts[:0]
	for _, p := range parts {
		if p == "required" || strings.HasPrefix(p, "required_") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ",")
}

func mapErrors(failures map[string]interface{}) error {
	if len(failures) == 0 {
		return nil
	}

	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)

	c := New()
	for _, name := range names {
		msg := "is invalid"
		if verrs, ok := failures[name].(validator.ValidationErrors); ok && len(verrs) > 0 {
			msg = formatValidationError(verrs[0])
		}
		c.Add(name, msg)
	}
	return c.Err()
}

// RequireSet fails with a MissingField error for the first key that is absent,
// nil or an empty string.
func RequireSet(attrs map[string]any, keys ...string) error {
	for _, k := range keys {
		v, ok := attrs[k]
		if !ok || v == nil {
			return errors.MissingField(k)
		}
		if s, isStr := v.(string); isStr && s == "" {
			return errors.MissingField(k)
		}
	}
	return nil
}

var (
	_ Validator = Nop{}
	_ Validator = Rules(nil)
)
