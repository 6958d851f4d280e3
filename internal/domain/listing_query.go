package domain

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SortKey selects one of the fixed listing orderings.
type SortKey string

const (
	SortRecommended SortKey = "recommended"
	SortPriceLow    SortKey = "price-low"
	SortPriceHigh   SortKey = "price-high"
	SortNewest      SortKey = "newest"
	SortRating      SortKey = "rating"
)

func parseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceLow, SortPriceHigh, SortNewest, SortRating:
		return k
	}
	return SortRecommended
}

const (
	DefaultPage      = 1
	DefaultPageLimit = 6
	MaxPageLimit     = 50
	// MaxPage keeps (page-1)*limit far inside int64 and Mongo's skip range.
	MaxPage = 1_000_000
)

// BudgetRange bounds rentAmount. A nil side is open.
type BudgetRange struct {
	Min *float64
	Max *float64
}

// ParseBudget understands "N+" (at least N), "min-max" (inclusive) and
// "0-max" (at most max). It reports false for anything else.
func ParseBudget(s string) (*BudgetRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if strings.HasSuffix(s, "+") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "+"), 64)
		if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return &BudgetRange{Min: &n}, true
	}
	loRaw, hiRaw, ok := strings.Cut(s, "-")
	if !ok {
		return nil, false
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(hiRaw), 64)
	if err != nil || math.IsNaN(hi) {
		return nil, false
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(loRaw), 64)
	if err != nil || lo < 0 || lo > hi {
		return nil, false
	}
	if lo == 0 {
		return &BudgetRange{Max: &hi}, true
	}
	return &BudgetRange{Min: &lo, Max: &hi}, true
}

// RoommateFilter has one field per roommate-preference axis. Zero values mean
// the axis is not filtered.
type RoommateFilter struct {
	Gender     Gender
	TenantType string
	Keyword    string
}

// IsZero reports whether no axis is set.
func (r RoommateFilter) IsZero() bool {
	return r.Gender == "" && r.TenantType == "" && r.Keyword == ""
}

// roommateFromLegacy maps the single-valued roommatePref parameter onto its axis.
func roommateFromLegacy(pref string) (RoommateFilter, bool) {
	switch p := strings.ToLower(strings.TrimSpace(pref)); p {
	case "female", "male":
		return RoommateFilter{Gender: Gender(p)}, true
	case "student", "working":
		return RoommateFilter{TenantType: p}, true
	case "upsc":
		return RoommateFilter{Keyword: p}, true
	}
	return RoommateFilter{}, false
}

// ConditionOp is a comparison used by passthrough filters.
type ConditionOp string

const (
	OpEq  ConditionOp = "eq"
	OpGt  ConditionOp = "gt"
	OpGte ConditionOp = "gte"
	OpLt  ConditionOp = "lt"
	OpLte ConditionOp = "lte"
	OpIn  ConditionOp = "in"
)

// FieldKind tells the parser how to coerce a raw query value.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindDate
)

// FilterableFields lists the accommodation fields open to passthrough filters.
var FilterableFields = map[string]FieldKind{
	"propertyType":        KindString,
	"city":                KindString,
	"landmark":            KindString,
	"messFacility":        KindString,
	"agreementTerms":      KindString,
	"amenities":           KindString,
	"preferredTenantType": KindString,
	"allowedGender":       KindString,
	"slug":                KindString,
	"rentAmount":          KindNumber,
	"securityDeposit":     KindNumber,
	"totalRooms":          KindNumber,
	"currentOccupancy":    KindNumber,
	"averageRating":       KindNumber,
	"availableFrom":       KindDate,
	"createdAt":           KindDate,
}

// SelectableFields lists the fields a client may request with select=.
var SelectableFields = map[string]struct{}{
	"propertyType": {}, "propertyName": {}, "address": {}, "city": {}, "landmark": {},
	"totalRooms": {}, "currentOccupancy": {}, "photos": {}, "description": {}, "amenities": {},
	"nearbyFacilities": {}, "transportation": {}, "messFacility": {}, "availableFrom": {},
	"rentAmount": {}, "securityDeposit": {}, "otherCharges": {}, "studentDiscount": {},
	"preferredTenantType": {}, "allowedGender": {}, "houseRules": {}, "agreementTerms": {},
	"slug": {}, "isAvailable": {}, "averageRating": {}, "createdAt": {}, "updatedAt": {},
}

// FieldCondition is one parsed passthrough filter. Values holds a single
// element except for OpIn.
type FieldCondition struct {
	Field  string
	Op     ConditionOp
	Values []any
}

var reservedParams = map[string]struct{}{
	"select": {}, "sort": {}, "page": {}, "limit": {}, "location": {}, "type": {},
	"budget": {}, "roommatePref": {}, "gender": {}, "tenantType": {}, "keyword": {},
}

// ListingQuery is the typed form of a listing search request.
type ListingQuery struct {
	Location     string
	PropertyType PropertyType
	Budget       *BudgetRange
	Roommate     RoommateFilter
	Conditions   []FieldCondition
	Sort         SortKey
	Page         int
	Limit        int
	Select       []string
}

// Skip is the number of documents before the requested page.
func (q ListingQuery) Skip() int64 {
	return int64(clampPage(q.Page)-1) * int64(q.Limit)
}

func clampPage(page int) int {
	return min(max(page, 1), MaxPage)
}

// ParseListingQuery builds a ListingQuery from untrusted URL parameters.
// Nothing is rejected: unusable parameters are dropped and described in the
// returned notes so callers can log them.
func ParseListingQuery(values url.Values) (ListingQuery, []string) {
	var notes []string
	q := ListingQuery{
		Location:     strings.TrimSpace(values.Get("location")),
		PropertyType: PropertyType(strings.TrimSpace(values.Get("type"))),
		Sort:         parseSortKey(values.Get("sort")),
		Page:         DefaultPage,
		Limit:        DefaultPageLimit,
	}

	if raw := values.Get("budget"); raw != "" {
		if b, ok := ParseBudget(raw); ok {
			q.Budget = b
		} else {
			notes = append(notes, "ignored invalid budget "+strconv.Quote(raw))
		}
	}

	if raw := values.Get("roommatePref"); raw != "" {
		if r, ok := roommateFromLegacy(raw); ok {
			q.Roommate = r
		} else {
			notes = append(notes, "ignored unknown roommatePref "+strconv.Quote(raw))
		}
	}
	if g := Gender(strings.ToLower(values.Get("gender"))); g != "" {
		if g == GenderMale || g == GenderFemale {
			q.Roommate.Gender = g
		} else {
			notes = append(notes, "ignored gender "+strconv.Quote(string(g)))
		}
	}
	if t := strings.TrimSpace(values.Get("tenantType")); t != "" {
		q.Roommate.TenantType = strings.ToLower(t)
	}
	if k := strings.TrimSpace(values.Get("keyword")); k != "" {
		q.Roommate.Keyword = k
	}

	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= MaxPage {
			q.Page = n
		} else {
			notes = append(notes, "ignored page "+strconv.Quote(raw))
		}
	}
	if n, err := strconv.Atoi(values.Get("limit")); err == nil && n >= 1 {
		q.Limit = min(n, MaxPageLimit)
	}

	if raw := values.Get("select"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if _, ok := SelectableFields[f]; ok {
				q.Select = append(q.Select, f)
			} else if f != "" {
				notes = append(notes, "ignored select field "+strconv.Quote(f))
			}
		}
	}

	for key, vals := range values {
		if _, reserved := reservedParams[key]; reserved || len(vals) == 0 {
			continue
		}
		field, op := splitConditionKey(key)
		kind, ok := FilterableFields[field]
		if !ok {
			notes = append(notes, "ignored filter on "+strconv.Quote(key))
			continue
		}
		cond, ok := buildCondition(field, op, kind, vals[0])
		if !ok {
			notes = append(notes, "ignored malformed value for "+strconv.Quote(key))
			continue
		}
		q.Conditions = append(q.Conditions, cond)
	}
	return q, notes
}

// splitConditionKey accepts both "rentAmount_gte" and "rentAmount[gte]".
func splitConditionKey(key string) (string, ConditionOp) {
	if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
		if op := ConditionOp(key[i+1 : len(key)-1]); op.isComparison() {
			return key[:i], op
		}
		return key, OpEq
	}
	if i := strings.LastIndexByte(key, '_'); i > 0 {
		if op := ConditionOp(key[i+1:]); op.isComparison() {
			return key[:i], op
		}
	}
	return key, OpEq
}

func (op ConditionOp) isComparison() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte, OpIn:
		return true
	}
	return false
}

func buildCondition(field string, op ConditionOp, kind FieldKind, raw string) (FieldCondition, bool) {
	parts := []string{raw}
	if op == OpIn {
		parts = strings.Split(raw, ",")
	}
	cond := FieldCondition{Field: field, Op: op, Values: make([]any, 0, len(parts))}
	for _, p := range parts {
		v, ok := coerce(kind, strings.TrimSpace(p))
		if !ok {
			return FieldCondition{}, false
		}
		cond.Values = append(cond.Values, v)
	}
	return cond, len(cond.Values) > 0
}

func coerce(kind FieldKind, raw string) (any, bool) {
	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	case KindDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC(), true
			}
		}
		return nil, false
	default:
		return raw, raw != ""
	}
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int
	Limit int
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalDocs   int64
	Next        *PageRef
	Prev        *PageRef
}

// NewPagination computes page metadata for total matches.
func NewPagination(page, limit int, total int64) Pagination {
	page = clampPage(page)
	p := Pagination{CurrentPage: page, TotalDocs: total}
	if limit > 0 {
		p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	start := int64(page-1) * int64(limit)
	if start+int64(limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if start > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// ListingPage is one page of search results.
type ListingPage struct {
	Items      []*ListingView
	Pagination Pagination
}
