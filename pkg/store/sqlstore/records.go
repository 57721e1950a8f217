package sqlstore

import (
	"context"
	"strings"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inquiryRepo struct {
	db *gorm.DB
}

func (r inquiryRepo) Insert(ctx context.Context, i *models.Inquiry) error {
	return errs.Wrap(r.db.WithContext(ctx).Create(i).Error, "inquiries.insert")
}

func (r inquiryRepo) ListByListing(ctx context.Context, listingID string, p store.Page) ([]models.Inquiry, int64, error) {
	return r.list(ctx, "listing_id = ?", listingID, p)
}

func (r inquiryRepo) ListByOwner(ctx context.Context, ownerID string, p store.Page) ([]models.Inquiry, int64, error) {
	return r.list(ctx, "listing_owner_id = ?", ownerID, p)
}

func (r inquiryRepo) list(ctx context.Context, cond, arg string, p store.Page) ([]models.Inquiry, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Inquiry{}).Where(cond, arg).Session(&gorm.Session{})
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, errs.Wrap(err, "inquiries.list")
	}
	items := []models.Inquiry{}
	if err := paginate(db, p).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, 0, errs.Wrap(err, "inquiries.list")
	}
	return items, count, nil
}

func (r inquiryRepo) DeleteByListing(ctx context.Context, listingID string) error {
	err := r.db.WithContext(ctx).Delete(&models.Inquiry{}, "listing_id = ?", listingID).Error
	return errs.Wrap(err, "inquiries.delete_by_listing")
}

type reportRepo struct {
	db *gorm.DB
}

func (r reportRepo) Insert(ctx context.Context, rep *models.Report) error {
	return errs.Wrap(r.db.WithContext(ctx).Create(rep).Error, "reports.insert")
}

func (r reportRepo) FindByID(ctx context.Context, id string) (*models.Report, error) {
	var rep models.Report
	if err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "reports.find")
	}
	return &rep, nil
}

func (r reportRepo) UpdateStatus(ctx context.Context, rep *models.Report, from models.ReportStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", rep.ID, from).
		Updates(map[string]any{"status": rep.Status, "updated_at": rep.UpdatedAt})
	if res.Error != nil {
		return errs.Wrap(res.Error, "reports.update_status")
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, rep.ID); err != nil {
			return err
		}
		return errs.Wrap(errs.ErrConflict, "reports.update_status")
	}
	return nil
}

func (r reportRepo) List(ctx context.Context, status models.ReportStatus, p store.Page) ([]models.Report, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	db = db.Session(&gorm.Session{})
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, errs.Wrap(err, "reports.list")
	}
	reports := []models.Report{}
	if err := paginate(db, p).Order("created_at DESC").Order("id DESC").Find(&reports).Error; err != nil {
		return nil, 0, errs.Wrap(err, "reports.list")
	}
	return reports, count, nil
}

func (r reportRepo) Count(ctx context.Context, status models.ReportStatus) (int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	var count int64
	return count, errs.Wrap(db.Count(&count).Error, "reports.count")
}

type approvalRepo struct {
	db *gorm.DB
}

func (r approvalRepo) Append(ctx context.Context, a *models.ApprovalAction) error {
	return errs.Wrap(r.db.WithContext(ctx).Create(a).Error, "approvals.append")
}

func (r approvalRepo) ListByListing(ctx context.Context, listingID string, p store.Page) ([]models.ApprovalAction, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.ApprovalAction{}).Where("listing_id = ?", listingID), p)
}

func (r approvalRepo) List(ctx context.Context, p store.Page) ([]models.ApprovalAction, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.ApprovalAction{}), p)
}

func (r approvalRepo) list(ctx context.Context, db *gorm.DB, p store.Page) ([]models.ApprovalAction, int64, error) {
	db = db.Session(&gorm.Session{})
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, errs.Wrap(err, "approvals.list")
	}
	actions := []models.ApprovalAction{}
	if err := paginate(db, p).Order("created_at DESC").Order("id DESC").Find(&actions).Error; err != nil {
		return nil, 0, errs.Wrap(err, "approvals.list")
	}
	return actions, count, nil
}

type userRepo struct {
	db *gorm.DB
}

func (r userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "users.find")
	}
	return &u, nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", strings.ToLower(email)).Error; err != nil {
		return nil, notFound(err, "users.find_email")
	}
	return &u, nil
}

func (r userRepo) Upsert(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(u).Error
	return errs.Wrap(err, "users.upsert")
}
