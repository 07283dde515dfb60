// Package database assembles parameterized SELECT statements for list and
// count queries. Identifiers are quoted through pgx; values are always bound.
package database

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// predicate is one AND-ed WHERE term. Its SQL numbers its own arguments from
// $1; the numbers are shifted when the statement is assembled.
type predicate struct {
	sql  string
	args []any
}

// OrderTerm is one ORDER BY key.
type OrderTerm struct {
	Column    string
	Direction string
	NullsLast bool
}

// Select builds a query over one table. The same filtered Select renders both
// the page query and the matching count, so the two never disagree.
//
//	q := database.From("job_postings").Eq("status", "open").ContainsAny("go", "title", "company")
//	total, args := q.CountSQL()
//	page, args := q.OrderBy("created_at", "DESC").Page(20, 40).SQL()
type Select struct {
	table   string
	columns []string
	where   []predicate
	order   []OrderTerm
	limit   int
	offset  int
	paged   bool
}

// From starts a query over table.
func From(table string) *Select {
	return &Select{table: table}
}

// Columns sets the selected columns. No columns selects *.
func (s *Select) Columns(cols ...string) *Select {
	s.columns = cols
	return s
}

// Eq adds column = value.
func (s *Select) Eq(column string, value any) *Select {
	s.where = append(s.where, predicate{sql: quote(column) + " = $1", args: []any{value}})
	return s
}

// Contains adds a case-insensitive substring match of text against column.
func (s *Select) Contains(column, text string) *Select {
	return s.ContainsAny(text, column)
}

// ContainsAny matches text as a substring of any of the columns. LIKE
// wildcards in text match literally.
func (s *Select) ContainsAny(text string, columns ...string) *Select {
	if len(columns) == 0 {
		return s
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = quote(c) + ` ILIKE $1 ESCAPE '\'`
	}
	sql := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		sql = "(" + sql + ")"
	}
	s.where = append(s.where, predicate{sql: sql, args: []any{"%" + EscapeLike(text) + "%"}})
	return s
}

// OrderBy appends a sort key. Directions other than ASC and DESC are dropped.
func (s *Select) OrderBy(column, direction string) *Select {
	s.order = append(s.order, OrderTerm{Column: column, Direction: direction})
	return s
}

// OrderByNullsLast is OrderBy with NULLs after every value.
func (s *Select) OrderByNullsLast(column, direction string) *Select {
	s.order = append(s.order, OrderTerm{Column: column, Direction: direction, NullsLast: true})
	return s
}

// Page sets LIMIT and OFFSET. Negative values are clamped to zero.
func (s *Select) Page(limit, offset int) *Select {
	s.limit, s.offset, s.paged = max(limit, 0), max(offset, 0), true
	return s
}

// SQL renders the query with its ordering and paging.
func (s *Select) SQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(s.selectList())
	b.WriteString(" FROM ")
	b.WriteString(quote(s.table))
	args := s.writeWhere(&b)

	b.WriteString(orderClause(s.order))
	if s.paged {
		n := len(args)
		b.WriteString(" LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2))
		args = append(args, s.limit, s.offset)
	}
	return b.String(), args
}

// CountSQL renders SELECT COUNT(*) over the same filters, without ordering
// or paging.
func (s *Select) CountSQL() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(quote(s.table))
	return b.String(), s.writeWhere(&b)
}

func (s *Select) selectList() string {
	if len(s.columns) == 0 {
		return "*"
	}
	cols := make([]string, len(s.columns))
	for i, c := range s.columns {
		cols[i] = quote(c)
	}
	return strings.Join(cols, ", ")
}

func (s *Select) writeWhere(b *strings.Builder) []any {
	args := []any{}
	for i, p := range s.where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(renumber(p, len(args)))
		args = append(args, p.args...)
	}
	return args
}

// renumber shifts p's placeholders past the offset arguments already bound.
// Placeholders beyond p's own arguments are left as written.
func renumber(p predicate, offset int) string {
	return placeholderRe.ReplaceAllStringFunc(p.sql, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(p.args) {
			return m
		}
		return "$" + strconv.Itoa(n+offset)
	})
}

func orderClause(order []OrderTerm) string {
	terms := make([]string, 0, len(order))
	for _, t := range order {
		if t.Column == "" {
			continue
		}
		term := quote(t.Column)
		if dir := strings.ToUpper(t.Direction); dir == "ASC" || dir == "DESC" {
			term += " " + dir
		}
		if t.NullsLast {
			term += " NULLS LAST"
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// quote sanitizes a possibly schema- or table-qualified identifier.
func quote(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
