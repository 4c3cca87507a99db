package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/InsearchofPandas/devcamper-api/internal/apperr"
)

func mustParse(t *testing.T, rawQuery string) *Params {
	t.Helper()
	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	p, err := Parse(values)
	require.NoError(t, err)
	return p
}

func TestParseEquality(t *testing.T) {
	p := mustParse(t, "housing=true&name=Devworks")
	assert.Equal(t, true, p.Filter["housing"])
	assert.Equal(t, "Devworks", p.Filter["name"])
}

func TestParseComparisonOperators(t *testing.T) {
	p := mustParse(t, "tuition[gte]=1000&weeks[lt]=12")
	assert.Equal(t, bson.M{"$gte": int64(1000)}, p.Filter["tuition"])
	assert.Equal(t, bson.M{"$lt": int64(12)}, p.Filter["weeks"])
}

func TestParseCombinedOperatorsOnOneField(t *testing.T) {
	p := mustParse(t, "tuition[gte]=1000&tuition[lte]=9000")
	assert.Equal(t, bson.M{"$gte": int64(1000), "$lte": int64(9000)}, p.Filter["tuition"])
}

func TestParseInOperator(t *testing.T) {
	p := mustParse(t, "careers[in]=Web Development,UI/UX")
	assert.Equal(t, bson.M{"$in": []interface{}{"Web Development", "UI/UX"}}, p.Filter["careers"])
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	values, err := url.ParseQuery("tuition[regex]=1000")
	require.NoError(t, err)
	_, err = Parse(values)
	require.Error(t, err)
	appErr, ok := err.(*apperr.Error)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
}

func TestParseRejectsUncoercibleRangeValue(t *testing.T) {
	for _, q := range []string{
		"tuition[gt]=abc",
		"weeks[lte]=twelve",
		"created_at[gte]=yesterday",
	} {
		values, err := url.ParseQuery(q)
		require.NoError(t, err)
		_, err = Parse(values)
		require.Error(t, err, q)
		appErr, ok := err.(*apperr.Error)
		require.True(t, ok)
		assert.Equal(t, 400, appErr.Status)
	}
}

func TestParseRangeValueDates(t *testing.T) {
	p := mustParse(t, "created_at[gte]=2026-01-01")
	want, _ := time.Parse("2006-01-02", "2026-01-01")
	assert.Equal(t, bson.M{"$gte": want}, p.Filter["created_at"])
}

func TestParseRejectsMalformedKey(t *testing.T) {
	values := url.Values{"[gte]": []string{"1"}}
	_, err := Parse(values)
	assert.Error(t, err)
}

func TestParseStripsReservedKeys(t *testing.T) {
	p := mustParse(t, "select=name,tuition&sort=-tuition&page=2&limit=10&tuition[gte]=1000")
	assert.Len(t, p.Filter, 1)
	assert.Contains(t, p.Filter, "tuition")
}

func TestParseSelect(t *testing.T) {
	p := mustParse(t, "select=name,description")
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "description", Value: 1}}, p.Select)
}

func TestParseSort(t *testing.T) {
	p := mustParse(t, "sort=-tuition,name")
	assert.Equal(t, bson.D{{Key: "tuition", Value: -1}, {Key: "name", Value: 1}}, p.Sort)
}

func TestParseDefaultSort(t *testing.T) {
	p := mustParse(t, "")
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, p.Sort)
}

func TestParsePageAndLimitDefaults(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"missing", "", 1, 25},
		{"explicit", "page=2&limit=10", 2, 10},
		{"non-numeric", "page=abc&limit=xyz", 1, 25},
		{"zero", "page=0&limit=0", 1, 25},
		{"negative", "page=-3&limit=-1", 1, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustParse(t, tc.query)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestParseValueCoercion(t *testing.T) {
	p := mustParse(t, "weeks=12&tuition[gt]=99.5&housing=false&name=Codemasters")
	assert.Equal(t, int64(12), p.Filter["weeks"])
	assert.Equal(t, bson.M{"$gt": 99.5}, p.Filter["tuition"])
	assert.Equal(t, false, p.Filter["housing"])
	assert.Equal(t, "Codemasters", p.Filter["name"])
}

func TestPaginateMiddlePage(t *testing.T) {
	pg := Paginate(2, 10, 35)
	require.NotNil(t, pg.Next)
	require.NotNil(t, pg.Prev)
	assert.Equal(t, 3, pg.Next.Page)
	assert.Equal(t, 1, pg.Prev.Page)
	assert.Equal(t, 10, pg.Next.Limit)
}

func TestPaginateFirstPage(t *testing.T) {
	pg := Paginate(1, 25, 100)
	assert.Nil(t, pg.Prev)
	require.NotNil(t, pg.Next)
	assert.Equal(t, 2, pg.Next.Page)
}

func TestPaginateTotalEqualsLimit(t *testing.T) {
	pg := Paginate(1, 25, 25)
	assert.Nil(t, pg.Next)
	assert.Nil(t, pg.Prev)
}

func TestPaginateLastPage(t *testing.T) {
	pg := Paginate(4, 10, 35)
	assert.Nil(t, pg.Next)
	require.NotNil(t, pg.Prev)
	assert.Equal(t, 3, pg.Prev.Page)
}

func TestPaginateEmptyResult(t *testing.T) {
	pg := Paginate(1, 25, 0)
	assert.Nil(t, pg.Next)
	assert.Nil(t, pg.Prev)
}
