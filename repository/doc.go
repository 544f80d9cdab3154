// Package repository provides a generic CRUD, filter and search facade over
// GORM for entities described by schema.Entity.
//
// Attributes arrive as maps keyed by column name. Create keeps the fillable
// ones and Update the updateable ones; both run the configured
// validation.Validator first. Update on a missing id creates the record.
//
// # Usage
//
//	repo, err := repository.New[Item](db, Item{}, validation.Rules{"name": "required"},
//		repository.WithRegistry(reg),
//		repository.WithPageSize(50),
//	)
//	page, err := repo.Filter(ctx, query.FilterRequest{
//		Filters: map[string]any{"views": ">=10", "oitem:title": "draft"},
//	}, 1)
//
// Every public operation runs inside a "repository.<op>" span.
package repository
