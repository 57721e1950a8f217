package services

import (
	"context"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/policy"
	"ceylonhomes-api-io/api/pkg/search"
	"ceylonhomes-api-io/api/pkg/util"
)

type searchService struct {
	base
	cache SearchCache
}

// NewSearchService builds the search service. cache may be nil.
func NewSearchService(opts Options, cache SearchCache) SearchService {
	return &searchService{base: newBase(opts), cache: cache}
}

const (
	defaultLatest = 8
	maxLatest     = 20
)

type searchPage struct {
	Listings []models.Listing `json:"listings"`
	Total    int64            `json:"total"`
}

// Search only ever returns approved listings.
func (s *searchService) Search(ctx context.Context, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error) {
	q := search.Public(criteria, clampSearchPage(page))
	key := "public|" + q.Key()

	var slot string
	if s.cache != nil {
		var (
			cached searchPage
			hit    bool
			err    error
		)
		slot, hit, err = s.cache.Get(ctx, key, &cached)
		if err != nil {
			util.LogWarning("search cache read failed: " + err.Error())
			slot = ""
		}
		if hit && err == nil {
			return cached.Listings, cached.Total, nil
		}
	}

	listings, total, err := s.run(ctx, q, "search.public")
	if err != nil {
		return nil, 0, err
	}
	if slot != "" {
		if err := s.cache.Set(ctx, slot, searchPage{Listings: listings, Total: total}); err != nil {
			util.LogWarning("search cache write failed: " + err.Error())
		}
	}
	return listings, total, nil
}

func (s *searchService) Latest(ctx context.Context, limit int) ([]models.Listing, error) {
	switch {
	case limit <= 0:
		limit = defaultLatest
	case limit > maxLatest:
		limit = maxLatest
	}
	listings, _, err := s.Search(ctx, search.Criteria{}, search.Page{Limit: limit, Sort: "created_at_desc"})
	return listings, err
}

func (s *searchService) AdminSearch(ctx context.Context, actor models.Actor, criteria search.Criteria, page search.Page) ([]models.Listing, int64, error) {
	if err := policy.RequireModerate(actor, "search.admin"); err != nil {
		return nil, 0, err
	}
	return s.run(ctx, search.Admin(criteria, clampSearchPage(page)), "search.admin")
}

func (s *searchService) run(ctx context.Context, q search.Query, op string) ([]models.Listing, int64, error) {
	listings, total, err := s.store.Reader().Listings().Search(ctx, q)
	if err != nil {
		return nil, 0, errs.Wrap(err, op)
	}
	for i := range listings {
		if err := s.withPhotos(ctx, &listings[i]); err != nil {
			return nil, 0, errs.Wrap(err, op)
		}
	}
	return listings, total, nil
}
