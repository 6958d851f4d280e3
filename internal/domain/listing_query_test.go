package domain

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		in   string
		want *BudgetRange
		ok   bool
	}{
		{"20000+", &BudgetRange{Min: f(20000)}, true},
		{"5000-10000", &BudgetRange{Min: f(5000), Max: f(10000)}, true},
		{"0-5000", &BudgetRange{Max: f(5000)}, true},
		{"10000-5000", nil, false},
		{"cheap", nil, false},
		{"-5000", nil, false},
		{"abc+", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBudget(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListingQueryDefaults(t *testing.T) {
	q, notes := ParseListingQuery(url.Values{})
	assert.Empty(t, notes)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 6, q.Limit)
	assert.Equal(t, SortRecommended, q.Sort)
	assert.Nil(t, q.Budget)
	assert.True(t, q.Roommate.IsZero())
	assert.Equal(t, int64(0), q.Skip())
}

func TestParseListingQueryPageBounds(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		wantPage  int
		wantNotes int
	}{
		{"largest accepted", "1000000", MaxPage, 0},
		{"past max", "1000001", 1, 1},
		{"max int64", "9223372036854775807", 1, 1},
		{"overflows int", "99999999999999999999", 1, 1},
		{"zero", "0", 1, 1},
		{"negative", "-4", 1, 1},
		{"not a number", "two", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, notes := ParseListingQuery(url.Values{"page": {tt.page}})
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Len(t, notes, tt.wantNotes)
			assert.GreaterOrEqual(t, q.Skip(), int64(0))

			p := NewPagination(q.Page, q.Limit, 10)
			if p.Next != nil {
				assert.Greater(t, p.Next.Page, q.Page)
			}
		})
	}
}

func TestSkipAndPaginationClampOutOfRangePage(t *testing.T) {
	q := ListingQuery{Page: math.MaxInt, Limit: DefaultPageLimit}
	assert.Equal(t, int64(MaxPage-1)*DefaultPageLimit, q.Skip())

	p := NewPagination(math.MaxInt, DefaultPageLimit, 13)
	assert.Equal(t, MaxPage, p.CurrentPage)
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, MaxPage-1, p.Prev.Page)
}

func TestParseListingQueryReservedAndPassthrough(t *testing.T) {
	v := url.Values{}
	v.Set("location", "  Delhi ")
	v.Set("type", "pg")
	v.Set("budget", "5000-10000")
	v.Set("sort", "price-high")
	v.Set("page", "3")
	v.Set("limit", "500")
	v.Set("select", "rentAmount,city,password")
	v.Set("totalRooms_gte", "2")
	v.Set("amenities[in]", "wifi, ac")
	v.Set("availableFrom_lt", "2024-07-01")
	v.Set("isAvailable", "false")
	v.Set("securityDeposit_lte", "lots")

	q, notes := ParseListingQuery(v)

	assert.Equal(t, "Delhi", q.Location)
	assert.Equal(t, PropertyPG, q.PropertyType)
	require.NotNil(t, q.Budget)
	assert.Equal(t, 5000.0, *q.Budget.Min)
	assert.Equal(t, SortPriceHigh, q.Sort)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxPageLimit, q.Limit)
	assert.Equal(t, int64(2*MaxPageLimit), q.Skip())
	assert.Equal(t, []string{"rentAmount", "city"}, q.Select)

	byField := map[string]FieldCondition{}
	for _, c := range q.Conditions {
		byField[c.Field] = c
	}
	assert.Len(t, q.Conditions, 3)
	assert.Equal(t, FieldCondition{Field: "totalRooms", Op: OpGte, Values: []any{2.0}}, byField["totalRooms"])
	assert.Equal(t, FieldCondition{Field: "amenities", Op: OpIn, Values: []any{"wifi", "ac"}}, byField["amenities"])
	assert.Equal(t, []any{time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}, byField["availableFrom"].Values)
	_, hasAvail := byField["isAvailable"]
	assert.False(t, hasAvail)
	assert.NotEmpty(t, notes)
}

func TestParseListingQueryRoommate(t *testing.T) {
	cases := map[string]RoommateFilter{
		"female":  {Gender: GenderFemale},
		"male":    {Gender: GenderMale},
		"student": {TenantType: "student"},
		"working": {TenantType: "working"},
		"upsc":    {Keyword: "upsc"},
	}
	for pref, want := range cases {
		q, _ := ParseListingQuery(url.Values{"roommatePref": {pref}})
		assert.Equal(t, want, q.Roommate, pref)
	}

	q, notes := ParseListingQuery(url.Values{
		"roommatePref": {"student"},
		"gender":       {"female"},
		"keyword":      {"quiet"},
	})
	assert.Empty(t, notes)
	assert.Equal(t, RoommateFilter{Gender: GenderFemale, TenantType: "student", Keyword: "quiet"}, q.Roommate)

	q, notes = ParseListingQuery(url.Values{"roommatePref": {"pets"}, "sort": {"random"}})
	assert.True(t, q.Roommate.IsZero())
	assert.Equal(t, SortRecommended, q.Sort)
	assert.Len(t, notes, 1)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 6, 13)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(13), p.TotalDocs)
	assert.Equal(t, &PageRef{Page: 2, Limit: 6}, p.Next)
	assert.Nil(t, p.Prev)

	p = NewPagination(3, 6, 13)
	assert.Nil(t, p.Next)
	assert.Equal(t, &PageRef{Page: 2, Limit: 6}, p.Prev)

	p = NewPagination(1, 6, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Prev)

	p = NewPagination(2, 6, 12)
	assert.Nil(t, p.Next)
	assert.NotNil(t, p.Prev)
}
