package query

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// operators maps the query-string operator tokens to their Mongo predicates.
// Unknown operators are rejected rather than passed through.
var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// Params is a parsed, typed query specification. It is derived per request
// and never persisted.
type Params struct {
	Filter bson.M
	Select bson.D
	Sort   bson.D
	Page   int
	Limit  int
}

// PageRef points at an adjacent page in the pagination descriptor.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination describes the neighbouring pages of a result set. Next is
// present iff more records follow the current page, Prev iff the page is
// not the first.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Result is the envelope Run produces, reused verbatim by list handlers.
type Result struct {
	Total      int64
	Pagination Pagination
}

// Parse translates raw query values into Params. Reserved keys (select,
// sort, page, limit) are stripped from the filter; the remaining keys become
// comparison constraints, `field[op]=value` selecting the operator and plain
// keys meaning equality.
func Parse(values url.Values) (*Params, error) {
	p := &Params{
		Filter: bson.M{},
		Page:   positiveInt(values.Get("page"), DefaultPage),
		Limit:  positiveInt(values.Get("limit"), DefaultLimit),
	}

	for key, vals := range values {
		switch key {
		case "select", "sort", "page", "limit":
			continue
		}
		if len(vals) == 0 {
			continue
		}
		field, op, err := splitOperator(key)
		if err != nil {
			return nil, err
		}
		if op == "" {
			p.Filter[field] = coerce(vals[0])
			continue
		}
		cond, ok := p.Filter[field].(bson.M)
		if !ok {
			cond = bson.M{}
			p.Filter[field] = cond
		}
		switch op {
		case "$in":
			cond[op] = coerceList(vals[0])
		case "$gt", "$gte", "$lt", "$lte":
			v, err := coerceOrdered(field, vals[0])
			if err != nil {
				return nil, err
			}
			cond[op] = v
		default:
			cond[op] = coerce(vals[0])
		}
	}

	if sel := values.Get("select"); sel != "" {
		p.Select = projection(sel)
	}
	p.Sort = sortSpec(values.Get("sort"))

	return p, nil
}

// Run executes the query against a collection, decoding the page of records
// into out (a pointer to a slice) and computing the pagination descriptor
// from the unpaginated match count.
func Run(ctx context.Context, coll *mongo.Collection, p *Params, out interface{}) (*Result, error) {
	total, err := coll.CountDocuments(ctx, p.Filter)
	if err != nil {
		return nil, err
	}

	skip := int64(p.Page-1) * int64(p.Limit)
	opts := options.Find().
		SetSort(p.Sort).
		SetSkip(skip).
		SetLimit(int64(p.Limit))
	if p.Select != nil {
		opts.SetProjection(p.Select)
	}

	cursor, err := coll.Find(ctx, p.Filter, opts)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, out); err != nil {
		return nil, err
	}

	res := &Result{
		Total:      total,
		Pagination: Paginate(p.Page, p.Limit, total),
	}
	return res, nil
}

// Paginate derives the next/previous page descriptors.
func Paginate(page, limit int, total int64) Pagination {
	skip := int64(page-1) * int64(limit)
	var pg Pagination
	if skip+int64(limit) < total {
		pg.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if skip > 0 {
		pg.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return pg
}

// splitOperator breaks "tuition[gte]" into field and Mongo operator. A key
// without brackets is an equality constraint.
func splitOperator(key string) (field, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", apperr.QueryError("Malformed filter parameter %q", key)
	}
	token := key[open+1 : len(key)-1]
	mongoOp, ok := operators[token]
	if !ok {
		return "", "", apperr.QueryError("Unknown filter operator %q", token)
	}
	return key[:open], mongoOp, nil
}

// coerce converts a raw value to the most specific of int, float, bool or
// string.
func coerce(val string) interface{} {
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}

// coerceOrdered converts a value used with a range operator. Ordered
// comparisons only make sense against numbers and dates, so anything else is
// rejected instead of becoming a string predicate that matches nothing.
func coerceOrdered(field, val string) (interface{}, error) {
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return nil, apperr.QueryError("Invalid filter value %q for %s: expected a number or date", val, field)
}

func coerceList(val string) []interface{} {
	parts := strings.Split(val, ",")
	out := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		out = append(out, coerce(strings.TrimSpace(part)))
	}
	return out
}

// projection builds the field selection, always keeping _id.
func projection(sel string) bson.D {
	proj := bson.D{}
	for _, field := range strings.Split(sel, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "_id" {
			continue
		}
		proj = append(proj, bson.E{Key: field, Value: 1})
	}
	return proj
}

// sortSpec parses the sort key list, a leading '-' meaning descending.
// Default order is newest first.
func sortSpec(sort string) bson.D {
	if sort == "" {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	spec := bson.D{}
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		if field == "" {
			continue
		}
		spec = append(spec, bson.E{Key: field, Value: dir})
	}
	if len(spec) == 0 {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return spec
}

// positiveInt coerces page/limit input, falling back to the default when the
// value is missing, non-numeric or not positive.
func positiveInt(val string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
