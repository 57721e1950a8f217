package services

import (
	"context"
	"strings"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/lifecycle"
	"ceylonhomes-api-io/api/pkg/media"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/policy"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/util"
)

// MaxPhotosPerUpload caps a single photo upload request.
const MaxPhotosPerUpload = 10

type listingService struct {
	base
	files  media.FileStore
	policy lifecycle.EditPolicy
}

func NewListingService(opts Options, files media.FileStore, editPolicy lifecycle.EditPolicy) ListingService {
	return &listingService{base: newBase(opts), files: files, policy: editPolicy}
}

func (s *listingService) CreateListing(ctx context.Context, actor models.Actor, req models.CreateListingRequest) (*models.Listing, error) {
	if actor.Role != models.RoleSeller && !actor.IsAdmin() {
		return nil, errs.E(errs.Unauthorized, "listings.create", "seller role required")
	}
	if err := validate("listings.create", req); err != nil {
		return nil, err
	}

	id := models.NewID()
	title := strings.TrimSpace(req.Title)
	l := &models.Listing{
		ID:                id,
		OwnerID:           actor.ID,
		Slug:              models.ListingSlug(title, id),
		Title:             title,
		Description:       req.Description,
		TransactionType:   req.TransactionType,
		PropertyType:      req.PropertyType,
		Price:             req.Price,
		District:          strings.TrimSpace(req.District),
		City:              strings.TrimSpace(req.City),
		Address:           req.Address,
		Bedrooms:          req.Bedrooms,
		Bathrooms:         req.Bathrooms,
		Size:              req.Size,
		ContactPhone:      req.ContactPhone,
		ContactWhatsapp:   req.ContactWhatsapp,
		AvailabilityStart: req.AvailabilityStart,
		AvailabilityEnd:   req.AvailabilityEnd,
		Photos:            []models.ListingPhoto{},
	}
	lifecycle.New(l, s.now())

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		return tx.Listings().Insert(ctx, l)
	})
	if err != nil {
		return nil, errs.Wrap(err, "listings.create")
	}

	s.notify(ctx, notify.Message{Event: notify.ListingCreated, Actor: actor, Listing: l})
	return l, nil
}

// mutate runs an owner transition as read, guard, apply, compare-and-swap.
func (s *listingService) mutate(ctx context.Context, actor models.Actor, listingID, op string, apply func(l *models.Listing, now time.Time) error) (*models.Listing, error) {
	var out *models.Listing
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if err := policy.RequireMutate(actor, l, op); err != nil {
			return err
		}
		expected := l.Version
		if err := apply(l, s.now()); err != nil {
			return err
		}
		if err := tx.Listings().Update(ctx, l, expected); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, "listings."+op)
	}
	if err := s.withPhotos(ctx, out); err != nil {
		util.LogError("load photos for "+out.ID, err)
	}
	return out, nil
}

func (s *listingService) EditListing(ctx context.Context, actor models.Actor, listingID string, req models.UpdateListingRequest) (*models.Listing, error) {
	// payload checks run after the ownership guard in mutate
	l, err := s.mutate(ctx, actor, listingID, "edit", func(l *models.Listing, now time.Time) error {
		if err := validate("listings.edit", req); err != nil {
			return err
		}
		if req.Empty() {
			return errs.E(errs.Validation, "listings.edit", "no fields to update")
		}
		if err := lifecycle.Edit(l, &req, s.policy, now); err != nil {
			return err
		}
		// the merged record must still satisfy the availability window
		if l.AvailabilityStart != nil && l.AvailabilityEnd != nil && l.AvailabilityEnd.Before(*l.AvailabilityStart) {
			return errs.E(errs.Validation, "edit", "availabilityEnd must not be before availabilityStart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notify.Message{Event: notify.ListingUpdated, Actor: actor, Listing: l})
	return l, nil
}

func (s *listingService) close(ctx context.Context, actor models.Actor, listingID string, to models.ListingStatus) (*models.Listing, error) {
	op := "mark_" + strings.ToLower(string(to))
	l, err := s.mutate(ctx, actor, listingID, op, func(l *models.Listing, now time.Time) error {
		return lifecycle.Close(l, to, now)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notify.Message{Event: notify.ListingClosed, Actor: actor, Listing: l})
	return l, nil
}

func (s *listingService) MarkSold(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error) {
	return s.close(ctx, actor, listingID, models.ListingStatusSold)
}

func (s *listingService) MarkRented(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error) {
	return s.close(ctx, actor, listingID, models.ListingStatusRented)
}

func (s *listingService) ArchiveListing(ctx context.Context, actor models.Actor, listingID string) (*models.Listing, error) {
	l, err := s.mutate(ctx, actor, listingID, "archive", lifecycle.Archive)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notify.Message{Event: notify.ListingArchived, Actor: actor, Listing: l})
	return l, nil
}

// DeleteListing removes the listing with its photos and inquiries. Approval
// history and reports are kept.
func (s *listingService) DeleteListing(ctx context.Context, actor models.Actor, listingID string) error {
	var (
		deleted *models.Listing
		photos  []models.ListingPhoto
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if err := policy.RequireMutate(actor, l, "delete"); err != nil {
			return err
		}
		if photos, err = tx.Photos().ListByListing(ctx, l.ID); err != nil {
			return err
		}
		if err := tx.Photos().DeleteByListing(ctx, l.ID); err != nil {
			return err
		}
		if err := tx.Inquiries().DeleteByListing(ctx, l.ID); err != nil {
			return err
		}
		if err := tx.Listings().Delete(ctx, l.ID); err != nil {
			return err
		}
		deleted = l
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "listings.delete")
	}

	for _, p := range photos {
		s.deleteFile(ctx, p.Locator)
	}
	s.notify(ctx, notify.Message{Event: notify.ListingDeleted, Actor: actor, Listing: deleted})
	return nil
}

func (s *listingService) deleteFile(ctx context.Context, locator string) {
	if s.files == nil || locator == "" {
		return
	}
	if err := s.files.Delete(context.WithoutCancel(ctx), locator); err != nil {
		util.LogError("delete stored photo "+locator, err)
	}
}

// AddPhotos uploads files and appends them after the current highest sort
// order. Uploads happen before the transaction; on failure they are removed.
func (s *listingService) AddPhotos(ctx context.Context, actor models.Actor, listingID string, files []Upload) ([]models.ListingPhoto, error) {
	const op = "listings.add_photos"

	current, err := s.store.Reader().Listings().FindByID(ctx, listingID)
	if err != nil {
		return nil, errs.Wrap(err, op)
	}
	if err := policy.RequireMutate(actor, current, "add photos"); err != nil {
		return nil, err
	}
	if err := lifecycle.CheckPhotoMutation(current); err != nil {
		return nil, errs.Wrap(err, op)
	}
	if len(files) == 0 {
		return nil, errs.E(errs.Validation, op, "at least one photo is required")
	}
	if len(files) > MaxPhotosPerUpload {
		return nil, errs.Ef(errs.Validation, op, "at most %d photos per upload", MaxPhotosPerUpload)
	}
	if s.files == nil {
		return nil, errs.E(errs.Internal, op, "file storage is not configured")
	}

	stored, err := s.upload(ctx, files)
	if err != nil {
		return nil, errs.Wrap(err, op)
	}

	var photos []models.ListingPhoto
	var listing *models.Listing
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		photos = photos[:0]
		l, err := tx.Listings().FindByID(ctx, listingID)
		if err != nil {
			return err
		}
		if err := policy.RequireMutate(actor, l, "add photos"); err != nil {
			return err
		}
		if err := lifecycle.CheckPhotoMutation(l); err != nil {
			return err
		}
		max, err := tx.Photos().MaxSortOrder(ctx, l.ID)
		if err != nil {
			return err
		}
		now := s.now()
		for i, f := range stored {
			p := models.ListingPhoto{
				ID:        models.NewID(),
				ListingID: l.ID,
				Locator:   f.Locator,
				URL:       f.URL,
				SortOrder: max + 1 + i,
				CreatedAt: now,
			}
			if err := tx.Photos().Insert(ctx, &p); err != nil {
				return err
			}
			photos = append(photos, p)
		}
		// bumping the version serialises concurrent uploads on one listing
		expected := l.Version
		l.UpdatedAt = now
		if err := tx.Listings().Update(ctx, l, expected); err != nil {
			return err
		}
		listing = l
		return nil
	})
	if err != nil {
		for _, f := range stored {
			s.deleteFile(ctx, f.Locator)
		}
		return nil, errs.Wrap(err, op)
	}

	s.notify(ctx, notify.Message{Event: notify.PhotosChanged, Actor: actor, Listing: listing})
	return photos, nil
}

func (s *listingService) upload(ctx context.Context, files []Upload) ([]media.StoredFile, error) {
	stored := make([]media.StoredFile, 0, len(files))
	for _, f := range files {
		sf, err := s.storeOne(ctx, f)
		if err != nil {
			for _, done := range stored {
				s.deleteFile(ctx, done.Locator)
			}
			return nil, err
		}
		stored = append(stored, sf)
	}
	return stored, nil
}

func (s *listingService) storeOne(ctx context.Context, f Upload) (media.StoredFile, error) {
	rc, err := f.Open()
	if err != nil {
		return media.StoredFile{}, err
	}
	defer rc.Close()
	return s.files.Store(ctx, f.Name, rc)
}

// RemovePhoto deletes one photo. Remaining photos keep their sort order.
func (s *listingService) RemovePhoto(ctx context.Context, actor models.Actor, photoID string) error {
	var (
		removed *models.ListingPhoto
		listing *models.Listing
	)
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		p, err := tx.Photos().FindByID(ctx, photoID)
		if err != nil {
			return err
		}
		l, err := tx.Listings().FindByID(ctx, p.ListingID)
		if err != nil {
			return err
		}
		if err := policy.RequireMutate(actor, l, "remove photo"); err != nil {
			return err
		}
		if err := lifecycle.CheckPhotoMutation(l); err != nil {
			return err
		}
		if err := tx.Photos().Delete(ctx, p.ID); err != nil {
			return err
		}
		expected := l.Version
		l.UpdatedAt = s.now()
		if err := tx.Listings().Update(ctx, l, expected); err != nil {
			return err
		}
		removed, listing = p, l
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "listings.remove_photo")
	}

	s.deleteFile(ctx, removed.Locator)
	s.notify(ctx, notify.Message{Event: notify.PhotosChanged, Actor: actor, Listing: listing})
	return nil
}

func (s *listingService) GetListing(ctx context.Context, actor *models.Actor, idOrSlug string) (*models.Listing, error) {
	const op = "listings.get"
	repo := s.store.Reader().Listings()

	l, err := repo.FindByID(ctx, idOrSlug)
	if errs.Is(err, errs.NotFound) {
		l, err = repo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, errs.Wrap(err, op)
	}
	if !policy.CanView(actor, l) {
		return nil, errs.E(errs.NotFound, op, "listing not found")
	}
	if err := s.withPhotos(ctx, l); err != nil {
		return nil, errs.Wrap(err, op)
	}
	return l, nil
}

func (s *listingService) MyListings(ctx context.Context, actor models.Actor, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error) {
	q := search.Owner(actor.ID, criteria, clampSearchPage(page))
	listings, total, err := s.store.Reader().Listings().Search(ctx, q)
	if err != nil {
		return nil, 0, errs.Wrap(err, "listings.mine")
	}
	for i := range listings {
		if err := s.withPhotos(ctx, &listings[i]); err != nil {
			return nil, 0, errs.Wrap(err, "listings.mine")
		}
	}
	return listings, total, nil
}

func (s *listingService) SellerSummary(ctx context.Context, actor models.Actor) (*models.ListingsSummary, error) {
	counts, err := s.store.Reader().Listings().CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, errs.Wrap(err, "listings.summary")
	}
	summary := &models.ListingsSummary{ByStatus: make(map[models.ListingStatus]int64, len(models.ListingStatuses))}
	for _, st := range models.ListingStatuses {
		summary.ByStatus[st] = counts[st]
		summary.Total += counts[st]
	}
	return summary, nil
}

func clampSearchPage(p search.Page) search.Page {
	sp := clampPage(store.Page{Limit: p.Limit, Skip: p.Skip})
	p.Limit, p.Skip = sp.Limit, sp.Skip
	return p
}
