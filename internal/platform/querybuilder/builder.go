// Package querybuilder assembles parameterized postgres statements for the
// repository layer. It is deliberately small: SELECT and UPDATE with AND-joined
// conditions cover every query the repositories issue.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition writes one WHERE fragment and appends its bind arguments.
type Condition func(sb *strings.Builder, args *[]any, next *int)

func Eq(column string, value any) Condition {
	return func(sb *strings.Builder, args *[]any, next *int) {
		sb.WriteString(column)
		sb.WriteString(" = ")
		sb.WriteString(bind(args, next, value))
	}
}

// In matches any of values. An empty slice yields a clause that matches
// nothing, so callers never have to special-case empty ID lists.
func In(column string, values []any) Condition {
	return func(sb *strings.Builder, args *[]any, next *int) {
		if len(values) == 0 {
			sb.WriteString("1=0")
			return
		}
		sb.WriteString(column)
		sb.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(bind(args, next, v))
		}
		sb.WriteString(")")
	}
}

func IsNull(column string) Condition {
	return func(sb *strings.Builder, _ *[]any, _ *int) {
		sb.WriteString(column)
		sb.WriteString(" IS NULL")
	}
}

// Expr embeds a raw SQL fragment, rewriting each ? to the next positional
// placeholder. The fragment must come from code, never from request input.
func Expr(expr string, exprArgs ...any) Condition {
	return func(sb *strings.Builder, args *[]any, next *int) {
		sb.WriteString(rewritePlaceholders(expr, exprArgs, args, next))
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)

	args := make([]any, 0, len(b.where))
	next := 1
	writeWhere(&sb, b.where, &args, &next)

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(b.limit))
	}

	return sb.String(), args, nil
}

type assignment struct {
	column string
	value  any
	// raw SQL assignment, value holds the fragment and rawArgs its binds
	raw     bool
	rawArgs []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

// SetExpr assigns a raw SQL expression, e.g. SetExpr("updated_at", "NOW()").
func (b *UpdateBuilder) SetExpr(column, expr string, exprArgs ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: expr, raw: true, rawArgs: exprArgs})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(b.table)
	sb.WriteString(" SET ")

	args := make([]any, 0, len(b.sets)+len(b.where))
	next := 1
	for i, s := range b.sets {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.column)
		sb.WriteString(" = ")
		if s.raw {
			expr, ok := s.value.(string)
			if !ok {
				return "", nil, fmt.Errorf("invalid raw assignment for %s", s.column)
			}
			sb.WriteString(rewritePlaceholders(expr, s.rawArgs, &args, &next))
			continue
		}
		sb.WriteString(bind(&args, &next, s.value))
	}

	writeWhere(&sb, b.where, &args, &next)

	return sb.String(), args, nil
}

func writeWhere(sb *strings.Builder, conditions []Condition, args *[]any, next *int) {
	if len(conditions) == 0 {
		return
	}
	sb.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		c(sb, args, next)
	}
}

func bind(args *[]any, next *int, value any) string {
	*args = append(*args, value)
	p := "$" + strconv.Itoa(*next)
	*next = *next + 1
	return p
}

func rewritePlaceholders(expr string, exprArgs []any, args *[]any, next *int) string {
	if len(exprArgs) == 0 {
		return expr
	}

	var out strings.Builder
	used := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && used < len(exprArgs) {
			out.WriteString(bind(args, next, exprArgs[used]))
			used++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}
