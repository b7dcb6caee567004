package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const DefaultLimit = 20

// Clause is one predicate of a listing query. Template holds a SQL fragment
// whose bind position is substituted via %[1]d; clauses with a nil Value are
// emitted verbatim and bind nothing. Templates only ever come from the
// compile functions below, never from request input.
type Clause struct {
	Template string
	Value    interface{}
}

// Plan is the compiled form of a client query description: the AND'ed
// predicate set, a validated ORDER BY expression and the pagination window.
type Plan struct {
	Clauses  []Clause
	SortExpr string
	Page     int
	Limit    int
	Offset   int
}

// WhereSQL renders the predicate set starting at bind position startPos.
// Every fragment is prefixed with " AND " so it appends to a base WHERE.
func (p Plan) WhereSQL(startPos int) (string, []interface{}) {
	var b strings.Builder
	args := make([]interface{}, 0, len(p.Clauses))

	pos := startPos
	for _, c := range p.Clauses {
		b.WriteString(" AND ")
		if c.Value == nil {
			b.WriteString(c.Template)
			continue
		}
		b.WriteString(fmt.Sprintf(c.Template, pos))
		args = append(args, c.Value)
		pos++
	}

	return b.String(), args
}

// LimitSQL renders the LIMIT/OFFSET tail, continuing the bind sequence after
// the WHERE arguments.
func (p Plan) LimitSQL(startPos int) (string, []interface{}) {
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", startPos, startPos+1),
		[]interface{}{p.Limit, p.Offset}
}

// Sort whitelists per listing kind. Values are the ORDER BY expressions the
// whitelisted keys resolve to; anything else falls back to the kind default.
var (
	productSortFields = map[string]string{
		"created_at": "p.created_at",
		"price":      "p.price",
		"name":       "p.name",
		"views":      "p.views",
		"likes":      "p.likes",
	}
	rentalSortFields = map[string]string{
		"created_at":  "r.created_at",
		"rental_rate": "r.rental_rate",
		"name":        "r.name",
		"views":       "r.views",
		"likes":       "r.likes",
	}
	businessSortFields = map[string]string{
		"rating":     "COALESCE(br.avg_rating, 0)",
		"created_at": "b.created_at",
		"name":       "b.name",
	}
)

// CompileProductFilters turns product list query parameters into a Plan.
// Numeric parameters that fail to parse are skipped, never an error.
func CompileProductFilters(q url.Values) Plan {
	var p Plan

	if c := q.Get("category"); c != "" && c != "all" {
		p.Clauses = append(p.Clauses, Clause{Template: "p.category = $%[1]d", Value: c})
	}
	if v, ok := parseFloat(q.Get("min_price")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "p.price >= $%[1]d", Value: v})
	}
	if v, ok := parseFloat(q.Get("max_price")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "p.price <= $%[1]d", Value: v})
	}
	switch q.Get("condition") {
	case "new":
		p.Clauses = append(p.Clauses, Clause{Template: "p.is_second_hand = false"})
	case "used":
		p.Clauses = append(p.Clauses, Clause{Template: "p.is_second_hand = true"})
	}
	if s := q.Get("search"); s != "" {
		p.Clauses = append(p.Clauses, searchClause("p.name", "p.description", s))
	}

	p.SortExpr = resolveSort(q, productSortFields, "created_at")
	p.Page, p.Limit, p.Offset = parsePagination(q)

	return p
}

// CompileRentalFilters turns rental list query parameters into a Plan.
func CompileRentalFilters(q url.Values) Plan {
	var p Plan

	if v, ok := parseFloat(q.Get("min_price")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "r.rental_rate >= $%[1]d", Value: v})
	}
	if v, ok := parseFloat(q.Get("max_price")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "r.rental_rate <= $%[1]d", Value: v})
	}
	if v, ok := parseInt(q.Get("bedrooms")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "r.bedrooms = $%[1]d", Value: v})
	}
	switch q.Get("furnished") {
	case "true":
		p.Clauses = append(p.Clauses, Clause{Template: "r.furnished = true"})
	case "false":
		p.Clauses = append(p.Clauses, Clause{Template: "r.furnished = false"})
	}
	if q.Get("pet_friendly") == "true" {
		p.Clauses = append(p.Clauses, Clause{Template: "r.pet_friendly = true"})
	}
	if q.Get("utilities_included") == "true" {
		p.Clauses = append(p.Clauses, Clause{Template: "r.utilities_included = true"})
	}
	if s := q.Get("search"); s != "" {
		p.Clauses = append(p.Clauses, searchClause("r.name", "r.description", s))
	}

	p.SortExpr = resolveSort(q, rentalSortFields, "created_at")
	p.Page, p.Limit, p.Offset = parsePagination(q)

	return p
}

// CompileBusinessFilters turns business list query parameters into a Plan.
// min_rating filters on the aggregated review average, so the rendered
// predicate references the reputation join.
func CompileBusinessFilters(q url.Values) Plan {
	var p Plan

	if c := q.Get("category"); c != "" && c != "all" {
		p.Clauses = append(p.Clauses, Clause{Template: "b.category = $%[1]d", Value: c})
	}
	if v, ok := parseFloat(q.Get("min_rating")); ok {
		p.Clauses = append(p.Clauses, Clause{Template: "COALESCE(br.avg_rating, 0) >= $%[1]d", Value: v})
	}
	if s := q.Get("search"); s != "" {
		p.Clauses = append(p.Clauses, searchClause("b.name", "b.description", s))
	}

	p.SortExpr = resolveSort(q, businessSortFields, "rating")
	p.Page, p.Limit, p.Offset = parsePagination(q)

	return p
}

// searchClause matches the query case-insensitively against name or
// description. Both ILIKE operands share one bind argument.
func searchClause(nameCol, descCol, query string) Clause {
	return Clause{
		Template: "(" + nameCol + " ILIKE $%[1]d OR " + descCol + " ILIKE $%[1]d)",
		Value:    "%" + query + "%",
	}
}

func resolveSort(q url.Values, whitelist map[string]string, fallback string) string {
	expr, ok := whitelist[q.Get("sort_by")]
	if !ok {
		expr = whitelist[fallback]
	}

	dir := "DESC"
	if strings.EqualFold(q.Get("sort_order"), "asc") {
		dir = "ASC"
	}

	return expr + " " + dir
}

func parsePagination(q url.Values) (page, limit, offset int) {
	page = 1
	if v, ok := parseInt(q.Get("page")); ok && v >= 1 {
		page = v
	}

	// Client-supplied page size is passed through uncapped, matching the
	// original contract.
	limit = DefaultLimit
	if v, ok := parseInt(q.Get("limit")); ok && v >= 1 {
		limit = v
	}

	return page, limit, (page - 1) * limit
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
