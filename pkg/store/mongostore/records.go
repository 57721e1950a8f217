package mongostore

import (
	"context"
	"errors"
	"strings"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// page runs a counted, paginated find into out.
func page[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, p store.Page, op string) ([]T, int64, error) {
	count, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	cursor, err := coll.Find(ctx, filter, findOptions(p.Limit, p.Skip).SetSort(sort))
	if err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	return out, count, nil
}

type photoRepo struct {
	coll *mongo.Collection
}

func (r photoRepo) Insert(ctx context.Context, p *models.ListingPhoto) error {
	_, err := r.coll.InsertOne(ctx, p)
	return errs.Wrap(err, "photos.insert")
}

func (r photoRepo) FindByID(ctx context.Context, id string) (*models.ListingPhoto, error) {
	var p models.ListingPhoto
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err, "photos.find")
	}
	return &p, nil
}

func (r photoRepo) ListByListing(ctx context.Context, listingID string) ([]models.ListingPhoto, error) {
	sort := bson.D{{Key: "sort_order", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	photos, _, err := page[models.ListingPhoto](ctx, r.coll, bson.M{"listing_id": listingID}, sort, store.Page{}, "photos.list")
	return photos, err
}

func (r photoRepo) MaxSortOrder(ctx context.Context, listingID string) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "sort_order", Value: -1}}).
		SetProjection(bson.M{"sort_order": 1})
	var top models.ListingPhoto
	err := r.coll.FindOne(ctx, bson.M{"listing_id": listingID}, opts).Decode(&top)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return -1, nil
	}
	if err != nil {
		return 0, errs.Wrap(err, "photos.max_sort_order")
	}
	return top.SortOrder, nil
}

func (r photoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Wrap(err, "photos.delete")
	}
	if res.DeletedCount == 0 {
		return errs.Wrap(errs.ErrNotFound, "photos.delete")
	}
	return nil
}

func (r photoRepo) DeleteByListing(ctx context.Context, listingID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"listing_id": listingID})
	return errs.Wrap(err, "photos.delete_by_listing")
}

type inquiryRepo struct {
	coll *mongo.Collection
}

func (r inquiryRepo) Insert(ctx context.Context, i *models.Inquiry) error {
	_, err := r.coll.InsertOne(ctx, i)
	return errs.Wrap(err, "inquiries.insert")
}

func (r inquiryRepo) ListByListing(ctx context.Context, listingID string, p store.Page) ([]models.Inquiry, int64, error) {
	return page[models.Inquiry](ctx, r.coll, bson.M{"listing_id": listingID}, newestFirst, p, "inquiries.list")
}

func (r inquiryRepo) ListByOwner(ctx context.Context, ownerID string, p store.Page) ([]models.Inquiry, int64, error) {
	return page[models.Inquiry](ctx, r.coll, bson.M{"listing_owner_id": ownerID}, newestFirst, p, "inquiries.list")
}

func (r inquiryRepo) DeleteByListing(ctx context.Context, listingID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"listing_id": listingID})
	return errs.Wrap(err, "inquiries.delete_by_listing")
}

type reportRepo struct {
	coll *mongo.Collection
}

func (r reportRepo) Insert(ctx context.Context, rep *models.Report) error {
	_, err := r.coll.InsertOne(ctx, rep)
	return errs.Wrap(err, "reports.insert")
}

func (r reportRepo) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var rep models.Report
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rep); err != nil {
		return nil, notFound(err, "reports.find")
	}
	return &rep, nil
}

func (r reportRepo) UpdateStatus(ctx context.Context, rep *models.Report, from models.ReportStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": rep.ID, "status": from},
		bson.M{"$set": bson.M{"status": rep.Status, "updated_at": rep.UpdatedAt}},
	)
	if err != nil {
		return errs.Wrap(err, "reports.update_status")
	}
	if res.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, rep.ID); err != nil {
			return err
		}
		return errs.Wrap(errs.ErrConflict, "reports.update_status")
	}
	return nil
}

func statusFilter(status models.ReportStatus) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}

func (r reportRepo) List(ctx context.Context, status models.ReportStatus, p store.Page) ([]models.Report, int64, error) {
	return page[models.Report](ctx, r.coll, statusFilter(status), newestFirst, p, "reports.list")
}

func (r reportRepo) Count(ctx context.Context, status models.ReportStatus) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, statusFilter(status))
	return count, errs.Wrap(err, "reports.count")
}

type approvalRepo struct {
	coll *mongo.Collection
}

func (r approvalRepo) Append(ctx context.Context, a *models.ApprovalAction) error {
	_, err := r.coll.InsertOne(ctx, a)
	return errs.Wrap(err, "approvals.append")
}

func (r approvalRepo) ListByListing(ctx context.Context, listingID string, p store.Page) ([]models.ApprovalAction, int64, error) {
	return page[models.ApprovalAction](ctx, r.coll, bson.M{"listing_id": listingID}, newestFirst, p, "approvals.list")
}

func (r approvalRepo) List(ctx context.Context, p store.Page) ([]models.ApprovalAction, int64, error) {
	return page[models.ApprovalAction](ctx, r.coll, bson.M{}, newestFirst, p, "approvals.list")
}

type userRepo struct {
	coll *mongo.Collection
}

func (r userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err, "users.find")
	}
	return &u, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		return nil, notFound(err, "users.find_email")
	}
	return &u, nil
}

func (r userRepo) Upsert(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	return errs.Wrap(err, "users.upsert")
}
