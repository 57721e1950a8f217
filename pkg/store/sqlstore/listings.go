package sqlstore

import (
	"context"
	"strings"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type listingRepo struct {
	db *gorm.DB
}

func (r listingRepo) Insert(ctx context.Context, l *models.Listing) error {
	return errs.Wrap(r.db.WithContext(ctx).Create(l).Error, "listings.insert")
}

func (r listingRepo) FindByID(ctx context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "listings.find")
	}
	return &l, nil
}

func (r listingRepo) FindBySlug(ctx context.Context, slug string) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.WithContext(ctx).First(&l, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err, "listings.find_slug")
	}
	return &l, nil
}

func (r listingRepo) Update(ctx context.Context, l *models.Listing, expectedVersion int64) error {
	l.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(l).
		Where("version = ?", expectedVersion).
		Select("*").
		Updates(l)
	if res.Error != nil {
		l.Version = expectedVersion
		return errs.Wrap(res.Error, "listings.update")
	}
	if res.RowsAffected == 0 {
		l.Version = expectedVersion
		if _, err := r.FindByID(ctx, l.ID); err != nil {
			return err
		}
		return errs.Wrap(errs.ErrConflict, "listings.update")
	}
	return nil
}

func (r listingRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if res.Error != nil {
		return errs.Wrap(res.Error, "listings.delete")
	}
	if res.RowsAffected == 0 {
		return errs.Wrap(errs.ErrNotFound, "listings.delete")
	}
	return nil
}

func (r listingRepo) Search(ctx context.Context, q search.Query) ([]models.Listing, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Listing{})
	for _, p := range q.Predicates {
		db = applyPredicate(db, p)
	}
	db = db.Session(&gorm.Session{})

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, errs.Wrap(err, "listings.search")
	}

	listings := []models.Listing{}
	err := paginate(db, store.Page{Limit: q.Limit, Skip: q.Skip}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: string(q.Sort.Field)}, Desc: q.Sort.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Sort.Desc}).
		Find(&listings).Error
	if err != nil {
		return nil, 0, errs.Wrap(err, "listings.search")
	}
	return listings, count, nil
}

func applyPredicate(db *gorm.DB, p search.Predicate) *gorm.DB {
	col := string(p.Field)
	switch p.Op {
	case search.OpEq:
		return db.Where(col+" = ?", p.Value)
	case search.OpGte:
		return db.Where(col+" >= ?", p.Value)
	case search.OpLte:
		return db.Where(col+" <= ?", p.Value)
	case search.OpContains:
		like := "%" + likeEscaper.Replace(p.Value.(string)) + "%"
		if p.Field == search.FieldOwnerText {
			return db.Where("owner_id IN (?)",
				subquery(db).Model(&models.User{}).Select("id").
					Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, like, like))
		}
		return db.Where("LOWER("+col+`) LIKE ? ESCAPE '\'`, like)
	}
	return db
}

// subquery starts a clean statement on the same connection.
func subquery(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true})
}

func (r listingRepo) CountByStatus(ctx context.Context, ownerID string) (map[models.ListingStatus]int64, error) {
	var rows []struct {
		Status models.ListingStatus
		Total  int64
	}
	db := r.db.WithContext(ctx).Model(&models.Listing{}).Select("status, COUNT(*) AS total")
	if ownerID != "" {
		db = db.Where("owner_id = ?", ownerID)
	}
	if err := db.Group("status").Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "listings.count")
	}
	out := make(map[models.ListingStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}
