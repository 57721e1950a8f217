package mongostore

import (
	"context"
	"regexp"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type listingRepo struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func (r listingRepo) Insert(ctx context.Context, l *models.Listing) error {
	_, err := r.coll.InsertOne(ctx, l)
	return errs.Wrap(err, "listings.insert")
}

func (r listingRepo) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "listings.find")
}

func (r listingRepo) FindBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, "listings.find_slug")
}

func (r listingRepo) findOne(ctx context.Context, filter bson.M, op string) (*models.Listing, error) {
	var l models.Listing
	if err := r.coll.FindOne(ctx, filter).Decode(&l); err != nil {
		return nil, notFound(err, op)
	}
	return &l, nil
}

func (r listingRepo) Update(ctx context.Context, l *models.Listing, expectedVersion int64) error {
	l.Version = expectedVersion + 1
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": l.ID, "version": expectedVersion}, l)
	if err != nil {
		l.Version = expectedVersion
		return errs.Wrap(err, "listings.update")
	}
	if res.MatchedCount == 0 {
		l.Version = expectedVersion
		if _, err := r.FindByID(ctx, l.ID); err != nil {
			return err
		}
		return errs.Wrap(errs.ErrConflict, "listings.update")
	}
	return nil
}

func (r listingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Wrap(err, "listings.delete")
	}
	if res.DeletedCount == 0 {
		return errs.Wrap(errs.ErrNotFound, "listings.delete")
	}
	return nil
}

func (r listingRepo) Search(ctx context.Context, q search.Query) ([]models.Listing, int64, error) {
	filter, err := r.filter(ctx, q.Predicates)
	if err != nil {
		return nil, 0, err
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, "listings.search")
	}

	opts := findOptions(q.Limit, q.Skip).SetSort(sortBson(q.Sort))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, errs.Wrap(err, "listings.search")
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, 0, errs.Wrap(err, "listings.search")
	}
	return listings, count, nil
}

func sortBson(s search.Sort) bson.D {
	value := 1
	if s.Desc {
		value = -1
	}
	return bson.D{{Key: string(s.Field), Value: value}, {Key: "_id", Value: value}}
}

// filter turns predicates into a $and of clauses. Owner text is resolved to
// matching user ids first.
func (r listingRepo) filter(ctx context.Context, preds []search.Predicate) (bson.M, error) {
	and := bson.A{}
	for _, p := range preds {
		field := string(p.Field)
		switch p.Op {
		case search.OpEq:
			and = append(and, bson.M{field: p.Value})
		case search.OpGte:
			and = append(and, bson.M{field: bson.M{"$gte": p.Value}})
		case search.OpLte:
			and = append(and, bson.M{field: bson.M{"$lte": p.Value}})
		case search.OpContains:
			pattern := bson.M{"$regex": regexp.QuoteMeta(p.Value.(string)), "$options": "i"}
			if p.Field != search.FieldOwnerText {
				and = append(and, bson.M{field: pattern})
				continue
			}
			ids, err := r.matchingUsers(ctx, pattern)
			if err != nil {
				return nil, err
			}
			and = append(and, bson.M{"owner_id": bson.M{"$in": ids}})
		}
	}
	if len(and) == 0 {
		return bson.M{}, nil
	}
	return bson.M{"$and": and}, nil
}

func (r listingRepo) matchingUsers(ctx context.Context, pattern bson.M) ([]string, error) {
	filter := bson.M{"$or": bson.A{bson.M{"name": pattern}, bson.M{"email": pattern}}}
	cursor, err := r.users.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errs.Wrap(err, "listings.owner_lookup")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errs.Wrap(err, "listings.owner_lookup")
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r listingRepo) CountByStatus(ctx context.Context, ownerID string) (map[models.ListingStatus]int64, error) {
	match := bson.M{}
	if ownerID != "" {
		match["owner_id"] = ownerID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "total": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errs.Wrap(err, "listings.count")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.ListingStatus `bson:"_id"`
		Total  int64                `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errs.Wrap(err, "listings.count")
	}
	out := make(map[models.ListingStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
