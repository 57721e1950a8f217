package sqlstore

import (
	"context"
	"database/sql"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"

	"gorm.io/gorm"
)

type photoRepo struct {
	db *gorm.DB
}

func (r photoRepo) Insert(ctx context.Context, p *models.ListingPhoto) error {
	return errs.Wrap(r.db.WithContext(ctx).Create(p).Error, "photos.insert")
}

func (r photoRepo) FindByID(ctx context.Context, id string) (*models.ListingPhoto, error) {
	var p models.ListingPhoto
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "photos.find")
	}
	return &p, nil
}

func (r photoRepo) ListByListing(ctx context.Context, listingID string) ([]models.ListingPhoto, error) {
	photos := []models.ListingPhoto{}
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Order("id ASC").
		Find(&photos).Error
	return photos, errs.Wrap(err, "photos.list")
}

func (r photoRepo) MaxSortOrder(ctx context.Context, listingID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&models.ListingPhoto{}).
		Where("listing_id = ?", listingID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, errs.Wrap(err, "photos.max_sort_order")
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

func (r photoRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.ListingPhoto{}, "id = ?", id)
	if res.Error != nil {
		return errs.Wrap(res.Error, "photos.delete")
	}
	if res.RowsAffected == 0 {
		return errs.Wrap(errs.ErrNotFound, "photos.delete")
	}
	return nil
}

func (r photoRepo) DeleteByListing(ctx context.Context, listingID string) error {
	err := r.db.WithContext(ctx).Delete(&models.ListingPhoto{}, "listing_id = ?", listingID).Error
	return errs.Wrap(err, "photos.delete_by_listing")
}
