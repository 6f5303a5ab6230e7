package mongo

import (
	"devcommunity/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// buildListFilter translates ListOptions into a bson filter: the keyword
// becomes a case-insensitive regex on the designated search field, every
// other entry an equality constraint.
func buildListFilter(opts repository.ListOptions) bson.M {
	filter := bson.M{}
	if opts.Keyword != "" && opts.SearchField != "" {
		filter[opts.SearchField] = bson.M{
			"$regex": primitive.Regex{Pattern: opts.Keyword, Options: "i"},
		}
	}
	for key, value := range opts.Filters {
		filter[key] = value
	}
	return filter
}

// buildListFindOptions applies newest-first ordering and skip/limit
// pagination derived from Page and Limit.
func buildListFindOptions(opts repository.ListOptions) *options.FindOptions {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
		if opts.Page > 1 {
			findOpts.SetSkip(int64((opts.Page - 1) * opts.Limit))
		}
	}
	return findOpts
}
