// Package query compiles filter maps and search terms into GORM queries.
//
// Filter keys name a field of the root entity, optionally prefixed by a
// colon-separated path of relations. Values are either bare (plain equality),
// operator-prefixed strings such as ">=5", or explicit OpValue pairs:
//
//	q, err := query.NewCompiler(reg).Compile(db.Model(&Item{}), Item{}, query.FilterRequest{
//		Filters: map[string]any{
//			"name":        "Item One",
//			"oitem:title": "draft",
//			"views":       query.OpValue{Op: ">", Value: 10},
//		},
//	})
//
// A pathed key compiles to nested EXISTS subqueries. Equality against a
// string matches as LIKE "%value%", except for a bare value on a root field,
// which matches exactly.
package query
