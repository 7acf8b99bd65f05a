package mongodb

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"supplier_server/core/domain"
)

// toFilter translates storage-agnostic criteria into a bson filter. All
// criteria are combined conjunctively.
func toFilter(criteria []domain.Criterion) (bson.M, error) {
	filter := bson.M{}
	for _, c := range criteria {
		clause, err := toClause(c)
		if err != nil {
			return nil, err
		}
		filter[c.Field] = clause
	}
	return filter, nil
}

func toClause(c domain.Criterion) (any, error) {
	switch c.Op {
	case domain.MatchSubstring:
		value, err := stringValue(c)
		if err != nil {
			return nil, err
		}
		return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}, nil
	case domain.MatchPattern:
		value, err := stringValue(c)
		if err != nil {
			return nil, err
		}
		return primitive.Regex{Pattern: value, Options: "i"}, nil
	case domain.MatchPrefix:
		value, err := stringValue(c)
		if err != nil {
			return nil, err
		}
		return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value)}, nil
	case domain.MatchEqual:
		return c.Value, nil
	case domain.MatchGTE:
		value, err := stringValue(c)
		if err != nil {
			return nil, err
		}
		dec, err := primitive.ParseDecimal128(value)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal criterion %q: %w", value, err)
		}
		return bson.M{"$gte": dec}, nil
	case domain.MatchAll:
		values, ok := c.Value.([]string)
		if !ok {
			return nil, fmt.Errorf("criterion %s: expected string slice, got %T", c.Field, c.Value)
		}
		return bson.M{"$all": values}, nil
	default:
		return nil, fmt.Errorf("criterion %s: unknown operator %d", c.Field, c.Op)
	}
}

func stringValue(c domain.Criterion) (string, error) {
	value, ok := c.Value.(string)
	if !ok {
		return "", fmt.Errorf("criterion %s: expected string, got %T", c.Field, c.Value)
	}
	return value, nil
}
