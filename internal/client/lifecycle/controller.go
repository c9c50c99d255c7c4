package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/formdraft/internal/client/models"
	"github.com/dmitrijs2005/formdraft/internal/logging"
)

// DraftStore is the part of the draft store the controller uses.
type DraftStore interface {
	GetDraftEntryByID(ctx context.Context, id int) (*models.DraftEntry, error)
	GetLastDraftID(ctx context.Context) (int, error)
	AddDraftEntry(ctx context.Context, entry models.DraftEntry)
	Watch() (<-chan models.DraftEntries, func())
}

// Params identify the form page being shown.
type Params struct {
	FormID     string
	FormTitle  string
	FormSlug   string
	PageNumber int
	// URLDraftID is the draft id from the route; 0 falls back to the
	// current route's draftId query value.
	URLDraftID int
	FormType   models.FormType
}

// Outcome tells what Resolve did.
type Outcome string

const (
	OutcomeResumed    Outcome = "resumed"
	OutcomeCreated    Outcome = "created"
	OutcomeRedirected Outcome = "redirected"
	OutcomeNone       Outcome = "none"
)

// Result of a Resolve call. Entry is nil unless a draft was resumed or
// created.
type Result struct {
	Outcome Outcome
	Entry   *models.DraftEntry
}

// Controller binds a form page to its draft entry.
type Controller struct {
	store  DraftStore
	nav    Navigator
	logger logging.Logger

	mu    sync.RWMutex
	local *models.DraftEntry

	subMu  sync.Mutex
	subs   map[int]chan *models.DraftEntry
	nextID int
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l logging.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

func NewController(store DraftStore, nav Navigator, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:  store,
		nav:    nav,
		logger: logging.Nop(),
		subs:   make(map[int]chan *models.DraftEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve looks up, creates or redirects for the page described by p.
func (c *Controller) Resolve(ctx context.Context, p Params) (Result, error) {
	id := p.URLDraftID
	if id == 0 {
		id = c.nav.Current().DraftID()
	}

	var existing *models.DraftEntry
	if id != 0 {
		e, err := c.store.GetDraftEntryByID(ctx, id)
		if err != nil {
			return Result{}, fmt.Errorf("failed to look up draft %d: %w", id, err)
		}
		existing = e
	}
	c.setLocal(existing)

	if existing != nil {
		return Result{Outcome: OutcomeResumed, Entry: existing}, nil
	}

	if p.PageNumber != 1 {
		target := c.nav.Current().FirstPage()
		if err := c.nav.Replace(ctx, target); err != nil {
			return Result{}, fmt.Errorf("failed to redirect to %s: %w", target.Path, err)
		}
		c.logger.Info(ctx, "no draft for page, redirected", "form_id", p.FormID, "page", p.PageNumber, "path", target.Path)
		return Result{Outcome: OutcomeRedirected}, nil
	}

	if p.FormID == "" {
		return Result{Outcome: OutcomeNone}, nil
	}

	last, err := c.store.GetLastDraftID(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to allocate draft id: %w", err)
	}
	entry := models.DraftEntry{
		DraftID:     last + 1,
		FieldValues: map[string]any{},
		Form: &models.DraftForm{
			FormID:    p.FormID,
			FormTitle: p.FormTitle,
			FormSlug:  p.FormSlug,
			Type:      p.FormType,
		},
		Status: models.StatusInProgress,
	}
	c.setLocal(&entry)
	c.store.AddDraftEntry(ctx, entry)

	target := c.nav.Current().WithDraftID(entry.DraftID)
	if err := c.nav.Replace(ctx, target); err != nil {
		return Result{}, fmt.Errorf("failed to navigate to %s: %w", target, err)
	}
	c.logger.Info(ctx, "draft started", "form_id", p.FormID, "draft_id", entry.DraftID)

	out := entry.Clone()
	return Result{Outcome: OutcomeCreated, Entry: &out}, nil
}

// Run resolves on every Params received and again on every draft store
// change, until ctx is done or params is closed. Resolve failures are
// logged and do not stop the loop.
func (c *Controller) Run(ctx context.Context, params <-chan Params) error {
	changes, cancel := c.store.Watch()
	defer cancel()

	var (
		cur Params
		has bool
	)
	resolve := func() {
		if _, err := c.Resolve(ctx, cur); err != nil {
			c.logger.Error(ctx, "draft resolve failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-params:
			if !ok {
				return nil
			}
			cur, has = p, true
			resolve()
		case <-changes:
			if has {
				resolve()
			}
		}
	}
}

// LocalDraftEntry returns the draft the page is bound to, or nil.
func (c *Controller) LocalDraftEntry() *models.DraftEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.local == nil {
		return nil
	}
	e := c.local.Clone()
	return &e
}

// Watch notifies about changes of LocalDraftEntry, keeping only the latest
// pending value. The returned func unsubscribes.
func (c *Controller) Watch() (<-chan *models.DraftEntry, func()) {
	ch := make(chan *models.DraftEntry, 1)

	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			close(ch)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) setLocal(e *models.DraftEntry) {
	var stored *models.DraftEntry
	if e != nil {
		cp := e.Clone()
		stored = &cp
	}
	c.mu.Lock()
	c.local = stored
	c.mu.Unlock()

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		var v *models.DraftEntry
		if stored != nil {
			cp := stored.Clone()
			v = &cp
		}
		ch <- v
	}
}
