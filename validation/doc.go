// Package validation checks attribute maps and structs before they reach the
// database.
//
// Repositories take a Validator. Rules is the map-driven implementation on
// go-playground/validator, with the extra "alpha_spaces" tag:
//
//	rules := validation.Rules{"name": "required,alpha_spaces"}
//	err := rules.Validate(ctx, map[string]any{"name": "Jane Doe"})
//
// Struct validates tagged structs. Both report failures as a single
// validation AppError whose "fields" detail lists each FieldError.
package validation
