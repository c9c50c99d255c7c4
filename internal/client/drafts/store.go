package drafts

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"time"

	"github.com/dmitrijs2005/formdraft/internal/client/models"
	"github.com/dmitrijs2005/formdraft/internal/client/persist"
	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/dmitrijs2005/formdraft/internal/logging"
)

// Store manages the draft collection of a single namespace.
//
// Reads that decide what to write (GetDraftEntries, GetDraftEntryByID,
// GetLastDraftID and everything built on them) go to the repository. State
// and GetFollowUpFormDraftEntries use the in-memory snapshot.
type Store struct {
	ns        Namespace
	container *persist.Container[models.DraftEntries]
	logger    logging.Logger
	now       func() time.Time
}

type storeOptions struct {
	logger logging.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*storeOptions)

// WithLogger sets the store logger.
func WithLogger(l logging.Logger) Option {
	return func(o *storeOptions) {
		o.logger = l
	}
}

// WithClock overrides the source of lastUpdated timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		o.now = now
	}
}

// NewStore binds a store to ns in repo. Call Open before relying on State.
func NewStore(repo kv.Repository, ns Namespace, opts ...Option) *Store {
	o := storeOptions{logger: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With("namespace", string(ns))
	return &Store{
		ns: ns,
		container: persist.New(repo, string(ns), models.DraftEntries{},
			persist.WithLogger[models.DraftEntries](logger)),
		logger: logger,
		now:    o.now,
	}
}

// Open loads the stored collection into the snapshot and waits for it.
// A failed load is not returned; it is available from LastError.
func (s *Store) Open(ctx context.Context) error {
	s.container.Init(ctx)
	return s.container.Wait(ctx)
}

// Namespace returns the namespace the store is bound to.
func (s *Store) Namespace() Namespace {
	return s.ns
}

// State returns a copy of the cached collection.
func (s *Store) State() models.DraftEntries {
	return s.container.Value().Clone()
}

// Watch notifies about every change of the cached collection. Received
// values are shared with the store and must not be modified.
func (s *Store) Watch() (<-chan models.DraftEntries, func()) {
	return s.container.Watch()
}

// LastError returns the most recent storage failure.
func (s *Store) LastError() error {
	return s.container.LastError()
}

// GetDraftEntries reads the collection from storage. An absent collection
// is returned as an empty one.
func (s *Store) GetDraftEntries(ctx context.Context) (models.DraftEntries, error) {
	entries, found, err := s.container.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s entries: %w", s.ns, err)
	}
	if !found || entries == nil {
		return models.DraftEntries{}, nil
	}
	return entries, nil
}

// GetDraftEntryByID returns the stored entry, or nil when id is 0 or no
// such entry exists.
func (s *Store) GetDraftEntryByID(ctx context.Context, id int) (*models.DraftEntry, error) {
	if id == 0 {
		return nil, nil
	}
	entries, err := s.GetDraftEntries(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetLastDraftID returns the highest stored draft id, or 0.
func (s *Store) GetLastDraftID(ctx context.Context) (int, error) {
	entries, err := s.GetDraftEntries(ctx)
	if err != nil {
		return 0, err
	}
	ids := entries.IDs()
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[len(ids)-1], nil
}

// CreateDraftEntryArgs describes a new draft. Status defaults to
// StatusUpdateInProgress.
type CreateDraftEntryArgs struct {
	Form           *models.DraftForm
	FieldValues    map[string]any
	FollowUpToForm *models.FollowUpToForm
	Status         models.DraftStatus
	ListFiles      []string
}

// CreateDraftEntry allocates the next id and stores a new entry under it.
//
// Ids are max+1 over what is stored, so removing the newest entry makes its
// id available again.
func (s *Store) CreateDraftEntry(ctx context.Context, args CreateDraftEntryArgs) (*models.DraftEntry, error) {
	last, err := s.GetLastDraftID(ctx)
	if err != nil {
		return nil, err
	}

	status := args.Status
	if status == "" {
		status = models.StatusUpdateInProgress
	}
	now := s.now()
	entry := models.DraftEntry{
		DraftID:        last + 1,
		Form:           args.Form,
		FieldValues:    args.FieldValues,
		FollowUpToForm: args.FollowUpToForm,
		Status:         status,
		ListFiles:      args.ListFiles,
		LastUpdated:    &now,
	}
	s.put(ctx, entry)

	s.logger.Info(ctx, "draft created", "draft_id", entry.DraftID, "status", string(status))
	out := entry.Clone()
	return &out, nil
}

// AddDraftEntry stores entry under its own id, replacing any entry already
// there.
func (s *Store) AddDraftEntry(ctx context.Context, entry models.DraftEntry) {
	s.put(ctx, entry)
	s.logger.Debug(ctx, "draft added", "draft_id", entry.DraftID)
}

func (s *Store) put(ctx context.Context, entry models.DraftEntry) {
	entry = entry.Clone()
	s.container.Update(ctx, func(state models.DraftEntries) models.DraftEntries {
		next := maps.Clone(state)
		if next == nil {
			next = models.DraftEntries{}
		}
		next[entry.DraftID] = entry
		return next
	})
}

// UpdateDraftEntryArgs describes a change to an existing draft. Nil fields
// are "not provided", except ListFiles which is always written.
type UpdateDraftEntryArgs struct {
	DraftID int
	// FieldValues are merged over the stored ones, key by key.
	FieldValues map[string]any
	Status      *models.DraftStatus
	LastPage    *int
	Errors      []models.DraftError
	// FollowUpToForm is merged over the stored link. When nil the stored
	// link is dropped.
	FollowUpToForm *models.FollowUpToForm
	ListFiles      []string
}

// UpdateDraftEntry merges args into the stored entry and returns the result,
// or nil without writing anything when the entry does not exist.
func (s *Store) UpdateDraftEntry(ctx context.Context, args UpdateDraftEntryArgs) (*models.DraftEntry, error) {
	entries, err := s.GetDraftEntries(ctx)
	if err != nil {
		return nil, err
	}
	prev, ok := entries[args.DraftID]
	if !ok {
		return nil, nil
	}

	next := prev.Clone()

	fv := make(map[string]any, len(prev.FieldValues)+len(args.FieldValues))
	maps.Copy(fv, prev.FieldValues)
	maps.Copy(fv, args.FieldValues)
	next.FieldValues = fv

	if args.Status != nil {
		next.Status = *args.Status
	}
	if args.LastPage != nil {
		next.LastPage = models.Ptr(*args.LastPage)
	}
	if args.Errors != nil {
		next.Errors = args.Errors
	}
	if args.FollowUpToForm != nil {
		merged := prev.FollowUpToForm.Merge(*args.FollowUpToForm)
		next.FollowUpToForm = &merged
	} else {
		next.FollowUpToForm = nil
	}
	now := s.now()
	next.LastUpdated = &now
	next.ListFiles = args.ListFiles

	entries = maps.Clone(entries)
	entries[args.DraftID] = next
	s.container.Set(ctx, entries)

	s.logger.Debug(ctx, "draft updated", "draft_id", args.DraftID, "status", string(next.Status))
	out := next.Clone()
	return &out, nil
}

// GetFollowUpFormDraftEntries returns the cached follow-ups of parentID that
// are awaiting submission or failed to submit.
func (s *Store) GetFollowUpFormDraftEntries(parentID int) models.DraftEntries {
	out := models.DraftEntries{}
	for id, e := range s.container.Value() {
		if e.IsFollowUpOf(parentID) {
			out[id] = e.Clone()
		}
	}
	return out
}

// CreateFollowUpDraftEntry creates a draft linked to parentID that waits for
// the parent to be submitted. Link fields left empty are filled from the
// parent's form.
func (s *Store) CreateFollowUpDraftEntry(ctx context.Context, parentID int, form *models.DraftForm, link models.FollowUpToForm) (*models.DraftEntry, error) {
	parent, err := s.GetDraftEntryByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("parent draft %d: %w", parentID, common.ErrorNotFound)
	}

	fromParent := models.FollowUpToForm{DraftID: parentID}
	if parent.Form != nil {
		fromParent.FormID = parent.Form.FormID
		fromParent.FormSlug = parent.Form.FormSlug
		fromParent.FormTitle = parent.Form.FormTitle
	}
	if parent.EntryID != nil {
		fromParent.EntryID = strconv.Itoa(*parent.EntryID)
	}
	merged := fromParent.Merge(link)
	merged.DraftID = parentID

	return s.CreateDraftEntry(ctx, CreateDraftEntryArgs{
		Form:           form,
		FieldValues:    map[string]any{},
		FollowUpToForm: &merged,
		Status:         models.StatusAwaitingFollowUpToForm,
	})
}

// RemoveDraftEntries deletes the given ids from the stored collection.
// Unknown ids are ignored.
func (s *Store) RemoveDraftEntries(ctx context.Context, ids []int) error {
	entries, err := s.GetDraftEntries(ctx)
	if err != nil {
		return err
	}
	next := maps.Clone(entries)
	for _, id := range ids {
		delete(next, id)
	}
	s.container.Set(ctx, next)
	s.logger.Info(ctx, "drafts removed", "draft_ids", ids)
	return nil
}

// RemoveAllDraftEntries stores an empty collection.
func (s *Store) RemoveAllDraftEntries(ctx context.Context) {
	s.container.Set(ctx, models.DraftEntries{})
	s.logger.Info(ctx, "all drafts removed")
}
