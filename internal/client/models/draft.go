// Package models defines the draft entry types persisted by the draft stores.
package models

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dmitrijs2005/formdraft/internal/common"
)

// DraftStatus is the lifecycle state of a draft entry.
type DraftStatus string

const (
	// StatusInProgress is the state a form stays in for most of its life,
	// whether the user saves and continues or goes offline.
	StatusInProgress DraftStatus = "IN_PROGRESS"
	// StatusAwaitingFollowUpToForm marks a follow-up form that is ready to
	// submit once its parent has been submitted (it needs the parent's entryId).
	StatusAwaitingFollowUpToForm DraftStatus = "AWAITING_FOLLOW_UP_TO_FORM"
	// StatusAwaitingOnlineStatus is ready to submit once the network is back.
	StatusAwaitingOnlineStatus DraftStatus = "AWAITING_ONLINE_STATUS"
	// StatusErrorOnSubmit is set after a failed submission attempt.
	StatusErrorOnSubmit DraftStatus = "ERROR_ON_SUBMIT"
	// StatusUpdateInProgress is a draft editing an entry that already exists
	// on the server.
	StatusUpdateInProgress DraftStatus = "UPDATE_IN_PROGRESS"
	// StatusQuizFailed means the user failed a quiz and must fix answers.
	StatusQuizFailed DraftStatus = "QUIZ_FAILED"
)

var draftStatuses = []DraftStatus{
	StatusInProgress,
	StatusAwaitingFollowUpToForm,
	StatusAwaitingOnlineStatus,
	StatusErrorOnSubmit,
	StatusUpdateInProgress,
	StatusQuizFailed,
}

// DraftStatuses lists every known status.
func DraftStatuses() []DraftStatus {
	return slices.Clone(draftStatuses)
}

// ParseDraftStatus validates s against the known statuses.
func ParseDraftStatus(s string) (DraftStatus, error) {
	st := DraftStatus(s)
	if slices.Contains(draftStatuses, st) {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownStatus, s)
}

// FormType tells the renderer whether the template is a plain form or a quiz.
type FormType string

const (
	FormTypeForm FormType = "form"
	FormTypeQuiz FormType = "quiz"
)

// DraftForm identifies the form template a draft belongs to.
type DraftForm struct {
	// EntryID is the server entry being edited by an update draft.
	EntryID   *int     `json:"entryId,omitempty"`
	Type      FormType `json:"type,omitempty"`
	FormTitle string   `json:"formTitle,omitempty"`
	FormID    string   `json:"formId,omitempty"`
	FormSlug  string   `json:"formSlug,omitempty"`
}

// FollowUpToForm links a follow-up draft back to the parent form that
// triggered it. Zero values mean "not set".
type FollowUpToForm struct {
	// DraftID of the parent draft.
	DraftID int `json:"draftId,omitempty"`
	// FromURL is where the user returns to once the follow-up is done.
	FromURL   string `json:"fromUrl,omitempty"`
	FormID    string `json:"formId,omitempty"`
	FormSlug  string `json:"formSlug,omitempty"`
	EntryID   string `json:"entryId,omitempty"`
	FormTitle string `json:"formTitle,omitempty"`
	// ComponentID is either a number or a string, as sent by the renderer.
	ComponentID   any   `json:"componentId,omitempty"`
	DeficiencyIDs []int `json:"deficiencyIds,omitempty"`
}

// Merge returns a copy of f with every set field of next laid over it.
// A nil receiver merges into an empty value.
func (f *FollowUpToForm) Merge(next FollowUpToForm) FollowUpToForm {
	var out FollowUpToForm
	if f != nil {
		out = f.clone()
	}
	if next.DraftID != 0 {
		out.DraftID = next.DraftID
	}
	if next.FromURL != "" {
		out.FromURL = next.FromURL
	}
	if next.FormID != "" {
		out.FormID = next.FormID
	}
	if next.FormSlug != "" {
		out.FormSlug = next.FormSlug
	}
	if next.EntryID != "" {
		out.EntryID = next.EntryID
	}
	if next.FormTitle != "" {
		out.FormTitle = next.FormTitle
	}
	if next.ComponentID != nil {
		out.ComponentID = next.ComponentID
	}
	if next.DeficiencyIDs != nil {
		out.DeficiencyIDs = slices.Clone(next.DeficiencyIDs)
	}
	return out
}

func (f FollowUpToForm) clone() FollowUpToForm {
	f.DeficiencyIDs = slices.Clone(f.DeficiencyIDs)
	return f
}

// DraftError is a submission error kept with the draft for display.
type DraftError struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// DraftEntry is one persisted, resumable form submission.
type DraftEntry struct {
	// DraftID is allocated locally, unique within a namespace.
	DraftID int `json:"draftId"`
	// EntryID is the server id returned by a successful parent submission.
	EntryID *int        `json:"entryId,omitempty"`
	Form    *DraftForm  `json:"form,omitempty"`
	Status  DraftStatus `json:"status"`
	// FieldValues are shaped the way the form renderer expects them.
	FieldValues    map[string]any  `json:"fieldValues,omitempty"`
	FollowUpToForm *FollowUpToForm `json:"followUpToForm,omitempty"`
	LastPage       *int            `json:"lastPage,omitempty"`
	Errors         []DraftError    `json:"errors,omitempty"`
	ListFiles      []string        `json:"listFiles,omitempty"`
	LastUpdated    *time.Time      `json:"lastUpdated,omitempty"`
}

// Clone returns a copy sharing no maps, slices or pointers with e.
// FieldValues is copied one level deep.
func (e DraftEntry) Clone() DraftEntry {
	out := e
	if e.EntryID != nil {
		v := *e.EntryID
		out.EntryID = &v
	}
	if e.Form != nil {
		f := *e.Form
		if f.EntryID != nil {
			v := *f.EntryID
			f.EntryID = &v
		}
		out.Form = &f
	}
	if e.FieldValues != nil {
		out.FieldValues = maps.Clone(e.FieldValues)
	}
	if e.FollowUpToForm != nil {
		fu := e.FollowUpToForm.clone()
		out.FollowUpToForm = &fu
	}
	if e.LastPage != nil {
		v := *e.LastPage
		out.LastPage = &v
	}
	out.Errors = slices.Clone(e.Errors)
	out.ListFiles = slices.Clone(e.ListFiles)
	if e.LastUpdated != nil {
		v := *e.LastUpdated
		out.LastUpdated = &v
	}
	return out
}

// IsFollowUpOf reports whether e is a follow-up of parentID that still
// waits for (or failed on) submission.
func (e DraftEntry) IsFollowUpOf(parentID int) bool {
	if e.Status != StatusAwaitingFollowUpToForm && e.Status != StatusErrorOnSubmit {
		return false
	}
	return e.FollowUpToForm != nil && e.FollowUpToForm.DraftID == parentID
}

// DraftEntries is a namespace's whole collection keyed by draft id. It is
// stored as one JSON object whose keys are the decimal ids.
type DraftEntries map[int]DraftEntry

// Clone deep-copies the collection. A nil receiver yields an empty map.
func (d DraftEntries) Clone() DraftEntries {
	out := make(DraftEntries, len(d))
	for id, e := range d {
		out[id] = e.Clone()
	}
	return out
}

// IDs returns the draft ids in ascending order.
func (d DraftEntries) IDs() []int {
	ids := slices.Collect(maps.Keys(d))
	slices.Sort(ids)
	return ids
}

// Sorted returns the entries ordered by draft id.
func (d DraftEntries) Sorted() []DraftEntry {
	out := make([]DraftEntry, 0, len(d))
	for _, id := range d.IDs() {
		out = append(out, d[id])
	}
	return out
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
