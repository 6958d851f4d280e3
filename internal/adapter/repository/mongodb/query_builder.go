package mongodb

import (
	"regexp"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listingSearchFields are matched by the free-text location parameter.
var listingSearchFields = []string{"city", "landmark", "address", "propertyName"}

func containsFold(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// buildListingFilter translates a search into a single filter document. The
// same document is used for counting and for fetching the page.
func buildListingFilter(q domain.ListingQuery) bson.D {
	clauses := bson.A{}

	for _, c := range q.Conditions {
		clauses = append(clauses, conditionClause(c))
	}

	if q.Location != "" {
		re := containsFold(q.Location)
		or := bson.A{}
		for _, f := range listingSearchFields {
			or = append(or, bson.D{{Key: f, Value: re}})
		}
		clauses = append(clauses, bson.D{{Key: "$or", Value: or}})
	}

	if q.PropertyType != "" {
		clauses = append(clauses, bson.D{{Key: "propertyType", Value: string(q.PropertyType)}})
	}

	if b := q.Budget; b != nil {
		rng := bson.D{}
		if b.Min != nil {
			rng = append(rng, bson.E{Key: "$gte", Value: *b.Min})
		}
		if b.Max != nil {
			rng = append(rng, bson.E{Key: "$lte", Value: *b.Max})
		}
		if len(rng) > 0 {
			clauses = append(clauses, bson.D{{Key: "rentAmount", Value: rng}})
		}
	}

	if g := q.Roommate.Gender; g != "" {
		clauses = append(clauses, bson.D{{Key: "allowedGender", Value: bson.D{
			{Key: "$in", Value: bson.A{string(g), string(domain.GenderAny)}},
		}}})
	}
	if t := q.Roommate.TenantType; t != "" {
		clauses = append(clauses, bson.D{{Key: "preferredTenantType", Value: containsFold(t)}})
	}
	if k := q.Roommate.Keyword; k != "" {
		clauses = append(clauses, bson.D{{Key: "description", Value: containsFold(k)}})
	}

	clauses = append(clauses, bson.D{{Key: "isAvailable", Value: true}})
	return bson.D{{Key: "$and", Value: clauses}}
}

func conditionClause(c domain.FieldCondition) bson.D {
	switch c.Op {
	case domain.OpEq:
		return bson.D{{Key: c.Field, Value: c.Values[0]}}
	case domain.OpIn:
		vals := make(bson.A, len(c.Values))
		copy(vals, c.Values)
		return bson.D{{Key: c.Field, Value: bson.D{{Key: "$in", Value: vals}}}}
	default:
		return bson.D{{Key: c.Field, Value: bson.D{{Key: "$" + string(c.Op), Value: c.Values[0]}}}}
	}
}

// listingSort maps a sort key to its ordering. _id is appended so pages are
// stable when the primary keys tie.
func listingSort(k domain.SortKey) bson.D {
	var s bson.D
	switch k {
	case domain.SortPriceLow:
		s = bson.D{{Key: "rentAmount", Value: 1}}
	case domain.SortPriceHigh:
		s = bson.D{{Key: "rentAmount", Value: -1}}
	case domain.SortNewest:
		s = bson.D{{Key: "createdAt", Value: -1}}
	case domain.SortRating:
		s = bson.D{{Key: "averageRating", Value: -1}}
	default:
		s = bson.D{{Key: "createdAt", Value: -1}, {Key: "averageRating", Value: -1}}
	}
	return append(s, bson.E{Key: "_id", Value: 1})
}

// listingProjection keeps the owner reference so owner summaries can still be attached.
func listingProjection(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	p := bson.D{{Key: "owner", Value: 1}}
	for _, f := range fields {
		p = append(p, bson.E{Key: f, Value: 1})
	}
	return p
}
