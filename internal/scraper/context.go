package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donaldgifford/fiscus-ingest/internal/browser"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

var errNoStoreID = errors.New("store metadata has no external store id")

// storeContext is a retailer's mechanism for selecting a physical store.
// After apply returns nil the session serves that store's catalog.
type storeContext interface {
	apply(ctx context.Context, sess browser.Session, s *site, meta domain.StoreMetadata) error
}

// cookieContext selects the store with a cookie on the host of the loaded
// page and reloads.
type cookieContext struct {
	name string
}

func (c cookieContext) apply(ctx context.Context, sess browser.Session, s *site, meta domain.StoreMetadata) error {
	if meta.ExternalStoreID == "" {
		return errNoStoreID
	}
	err := sess.SetCookies(ctx, browser.Cookie{Name: c.name, Value: meta.ExternalStoreID})
	if err != nil {
		return fmt.Errorf("setting %s cookie: %w", c.name, err)
	}
	return s.reload(ctx, sess)
}

// localStorageContext writes the store id under key and reloads so the
// single-page app picks it up on boot.
type localStorageContext struct {
	key string
}

const setLocalStorageJS = `(k, v) => window.localStorage.setItem(k, v)`

func (c localStorageContext) apply(ctx context.Context, sess browser.Session, s *site, meta domain.StoreMetadata) error {
	if meta.ExternalStoreID == "" {
		return errNoStoreID
	}
	if err := sess.Eval(ctx, setLocalStorageJS, c.key, meta.ExternalStoreID); err != nil {
		return fmt.Errorf("setting localStorage %s: %w", c.key, err)
	}
	return s.reload(ctx, sess)
}

// pickerContext drives the site's store-picker dialog: open it, search by
// address, click the entry for the store id, confirm.
type pickerContext struct {
	open   string
	search string
	// option may contain {id}, replaced with the external store id.
	option  string
	confirm string
	timeout time.Duration
}

func (c pickerContext) apply(ctx context.Context, sess browser.Session, s *site, meta domain.StoreMetadata) error {
	if meta.ExternalStoreID == "" {
		return errNoStoreID
	}
	if err := sess.Click(ctx, c.open); err != nil {
		return fmt.Errorf("opening store picker: %w", err)
	}
	if meta.Address != "" && c.search != "" {
		if err := sess.Type(ctx, c.search, meta.Address); err != nil {
			return fmt.Errorf("searching store picker: %w", err)
		}
	}

	option := strings.ReplaceAll(c.option, "{id}", meta.ExternalStoreID)
	if err := sess.WaitVisible(ctx, option, c.timeout); err != nil {
		return fmt.Errorf("waiting for store %s in picker: %w", meta.ExternalStoreID, err)
	}
	if err := sess.Click(ctx, option); err != nil {
		return fmt.Errorf("choosing store %s: %w", meta.ExternalStoreID, err)
	}
	if c.confirm != "" {
		if err := sess.Click(ctx, c.confirm); err != nil {
			return fmt.Errorf("confirming store: %w", err)
		}
	}
	return sleep(ctx, s.opts.settleDelay)
}

func (s *site) reload(ctx context.Context, sess browser.Session) error {
	if err := sess.Reload(ctx); err != nil {
		return fmt.Errorf("reloading after store selection: %w", err)
	}
	return sleep(ctx, s.opts.settleDelay)
}
