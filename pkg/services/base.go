package services

import (
	"context"
	"strings"
	"time"

	"ceylonhomes-api-io/api/pkg/errs"
	"ceylonhomes-api-io/api/pkg/models"
	"ceylonhomes-api-io/api/pkg/notify"
	"ceylonhomes-api-io/api/pkg/store"
	"ceylonhomes-api-io/api/pkg/util"
)

const notifyTimeout = 5 * time.Second

// Options carries collaborators shared by every service.
type Options struct {
	Store    store.Store
	Notifier notify.Notifier
	Now      func() time.Time
}

type base struct {
	store    store.Store
	notifier notify.Notifier
	now      func() time.Time
}

func newBase(opts Options) base {
	b := base{store: opts.Store, notifier: opts.Notifier, now: opts.Now}
	if b.notifier == nil {
		b.notifier = notify.Nop{}
	}
	if b.now == nil {
		b.now = func() time.Time { return time.Now().UTC() }
	}
	return b
}

// notify runs after commit. Failures are logged and never reach the caller.
func (b base) notify(ctx context.Context, msg notify.Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := b.notifier.Notify(ctx, msg); err != nil {
		util.LogError("notify "+string(msg.Event), err)
	}
}

func validate(op string, v any) error {
	if err := models.Validate.Struct(v); err != nil {
		return errs.Ef(errs.Validation, op, "%v", err)
	}
	return nil
}

func trimmedOrNil(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

func clampPage(p store.Page) store.Page {
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// withPhotos attaches ordered photos, read outside any transaction.
func (b base) withPhotos(ctx context.Context, listings ...*models.Listing) error {
	photos := b.store.Reader().Photos()
	for _, l := range listings {
		ps, err := photos.ListByListing(ctx, l.ID)
		if err != nil {
			return err
		}
		l.Photos = ps
	}
	return nil
}
