package query

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database/schema"
)

// CompileSearch adds one group per non-blank term matching the term, case
// insensitively, as a substring of any direct field of table. Groups are
// ANDed. Relation-qualified fields are ignored. With no terms or no direct
// fields, base is returned unchanged.
func CompileSearch(base *gorm.DB, table string, terms []string, fields []string) *gorm.DB {
	direct := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" && !strings.Contains(f, schema.PathSeparator) {
			direct = append(direct, f)
		}
	}
	if len(direct) == 0 {
		return base
	}

	q := base
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern := "%" + strings.ToLower(term) + "%"
		exprs := make([]clause.Expression, 0, len(direct))
		for _, f := range direct {
			exprs = append(exprs, clause.Expr{
				SQL:  "LOWER(?) LIKE ?",
				Vars: []interface{}{clause.Column{Table: table, Name: f}, pattern},
			})
		}
		if len(exprs) == 1 {
			q = q.Where(exprs[0])
			continue
		}
		q = q.Where(clause.Or(exprs...))
	}
	return q
}
