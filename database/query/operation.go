package query

import (
	stderrors "errors"
	"strconv"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/kbukum/toolbox/database/schema"
	"github.com/kbukum/toolbox/errors"
)

// Comparator is the comparison applied to a filtered field.
type Comparator int

const (
	EQ Comparator = iota
	NEQ
	LT
	LTE
	GT
	GTE
	LIKE
)

// String returns the SQL token.
func (c Comparator) String() string {
	switch c {
	case EQ:
		return "="
	case NEQ:
		return "<>"
	case LT:
		return "<"
	case LTE:
		return "<="
	case GT:
		return ">"
	case GTE:
		return ">="
	case LIKE:
		return "LIKE"
	default:
		return "?"
	}
}

// Expression builds the predicate col <c> value. EQ and NEQ against nil
// become IS NULL and IS NOT NULL.
func (c Comparator) Expression(col clause.Column, value any) clause.Expression {
	switch c {
	case NEQ:
		return clause.Neq{Column: col, Value: value}
	case LT:
		return clause.Lt{Column: col, Value: value}
	case LTE:
		return clause.Lte{Column: col, Value: value}
	case GT:
		return clause.Gt{Column: col, Value: value}
	case GTE:
		return clause.Gte{Column: col, Value: value}
	case LIKE:
		return clause.Like{Column: col, Value: value}
	default:
		return clause.Eq{Column: col, Value: value}
	}
}

// operatorTokens is the accepted operator set, longest tokens first so
// prefix matching prefers ">=" over ">".
var operatorTokens = []struct {
	token string
	cmp   Comparator
}{
	{">=", GTE},
	{"<=", LTE},
	{"!=", NEQ},
	{"<>", NEQ},
	{"=", EQ},
	{"<", LT},
	{">", GT},
}

func comparatorFor(token string) (Comparator, bool) {
	for _, t := range operatorTokens {
		if t.token == token {
			return t.cmp, true
		}
	}
	return EQ, false
}

// Operation is one parsed filter instruction.
type Operation struct {
	Field       string
	IncludePath []string
	Comparator  Comparator
	Value       any
}

// OpValue is an explicit operator/value pair supplied as a filter value.
type OpValue struct {
	Op    string
	Value any
}

// ParseOperation parses a filter key such as "a:b:field" with an operator
// token and value. An equality against a string becomes LIKE "%value%".
func ParseOperation(rawKey, rawOperator string, rawValue any) (*Operation, error) {
	cmp, ok := comparatorFor(rawOperator)
	if !ok {
		return nil, errors.UnsupportedOperator(rawOperator)
	}

	segments := strings.Split(rawKey, schema.PathSeparator)
	field := segments[len(segments)-1]
	if field == "" {
		return nil, errors.InvalidInput(rawKey, "filter key "+strconv.Quote(rawKey)+" names no field")
	}

	op := &Operation{
		Field:       field,
		IncludePath: append([]string(nil), segments[:len(segments)-1]...),
		Comparator:  cmp,
		Value:       rawValue,
	}
	if s, isString := rawValue.(string); isString && cmp == EQ {
		op.Comparator = LIKE
		op.Value = "%" + s + "%"
	}
	return op, nil
}

// HasIncludes reports whether relation names remain on the include path.
func (o *Operation) HasIncludes() bool {
	return len(o.IncludePath) > 0
}

// PullInclude removes and returns the outermost relation name.
func (o *Operation) PullInclude() (string, error) {
	if !o.HasIncludes() {
		return "", errors.EmptyPath()
	}
	next := o.IncludePath[0]
	o.IncludePath = o.IncludePath[1:]
	return next, nil
}

// ErrNoOperator is returned by SplitOperator for values carrying no operator.
var ErrNoOperator = stderrors.New("query: value carries no operator")

// SplitOperator reduces a raw filter value to an operator and operand. It
// accepts an OpValue or a string prefixed by an operator token, such as
// ">=5" or "!=draft". Numeric remainders are converted to numbers.
func SplitOperator(rawValue any) (string, any, error) {
	switch v := rawValue.(type) {
	case OpValue:
		return v.Op, v.Value, nil
	case *OpValue:
		if v != nil {
			return v.Op, v.Value, nil
		}
	case string:
		for _, t := range operatorTokens {
			if strings.HasPrefix(v, t.token) {
				return t.token, coerce(strings.TrimSpace(v[len(t.token):])), nil
			}
		}
	}
	return "", rawValue, ErrNoOperator
}

func coerce(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if !strings.ContainsAny(s, "0123456789") {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
