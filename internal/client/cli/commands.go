package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/formdraft/internal/client/draftquery"
	"github.com/dmitrijs2005/formdraft/internal/client/drafts"
	"github.com/dmitrijs2005/formdraft/internal/client/lifecycle"
	"github.com/dmitrijs2005/formdraft/internal/client/models"
	"github.com/dmitrijs2005/formdraft/internal/common"
)

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}

func notFound(id int) error {
	return fmt.Errorf("draft %d: %w", id, common.ErrorNotFound)
}

func (a *App) Namespace(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("ns <form-data|corrective-action>")
	}
	ns, err := drafts.ParseNamespace(args[0])
	if err != nil {
		return err
	}
	s, err := a.stores.Get(ns)
	if err != nil {
		return err
	}
	a.store = s
	printlnFn("Switched to", ns.String())
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	entries := a.store.State()
	if len(args) > 0 {
		q, err := draftquery.Compile(strings.Join(args, " "))
		if err != nil {
			return err
		}
		if entries, err = q.Filter(entries); err != nil {
			return err
		}
	}
	printEntries(entries)
	return nil
}

func printEntries(entries models.DraftEntries) {
	if len(entries) == 0 {
		printlnFn("No drafts")
		return
	}
	for _, e := range entries.Sorted() {
		printlnFn(summary(e))
	}
}

func summary(e models.DraftEntry) string {
	form, page, updated := "-", "-", "-"
	if e.Form != nil && e.Form.FormID != "" {
		form = e.Form.FormID
	}
	if e.LastPage != nil {
		page = strconv.Itoa(*e.LastPage)
	}
	if e.LastUpdated != nil {
		updated = e.LastUpdated.Format("2006-01-02 15:04")
	}
	s := fmt.Sprintf("#%d %s form=%s page=%s fields=%d files=%d updated=%s",
		e.DraftID, e.Status, form, page, len(e.FieldValues), len(e.ListFiles), updated)
	if e.FollowUpToForm != nil && e.FollowUpToForm.DraftID != 0 {
		s += fmt.Sprintf(" follow-up-to=#%d", e.FollowUpToForm.DraftID)
	}
	return s
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	e, err := a.store.GetDraftEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return notFound(id)
	}
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	printlnFn(string(b))
	return nil
}

func (a *App) New(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("new <formId> [title]")
	}
	e, err := a.store.CreateDraftEntry(ctx, drafts.CreateDraftEntryArgs{
		Form: &models.DraftForm{
			FormID:    args[0],
			FormTitle: strings.Join(args[1:], " "),
			Type:      models.FormTypeForm,
		},
		FieldValues: map[string]any{},
		Status:      models.StatusInProgress,
	})
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created draft #%d", e.DraftID))
	return nil
}

func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usage("open <formId> <page> [draftId]")
	}
	formID := args[0]
	page, err := strconv.Atoi(args[1])
	if err != nil || page < 1 {
		return fmt.Errorf("invalid page %q", args[1])
	}
	var draftID int
	if len(args) == 3 {
		if draftID, err = parseID(args[2]); err != nil {
			return err
		}
	}

	route := lifecycle.Route{Path: fmt.Sprintf("/forms/%s/page%d", formID, page)}
	if draftID != 0 {
		route = route.WithDraftID(draftID)
	}
	if err := a.nav.Replace(ctx, route); err != nil {
		return err
	}

	ctrl := lifecycle.NewController(a.store, a.nav, lifecycle.WithLogger(a.logger))
	res, err := ctrl.Resolve(ctx, lifecycle.Params{
		FormID:     formID,
		FormSlug:   formID,
		PageNumber: page,
		URLDraftID: draftID,
		FormType:   models.FormTypeForm,
	})
	if err != nil {
		return err
	}

	at := a.nav.Current().String()
	switch res.Outcome {
	case lifecycle.OutcomeResumed:
		printlnFn(fmt.Sprintf("Resumed draft #%d at %s", res.Entry.DraftID, at))
	case lifecycle.OutcomeCreated:
		printlnFn(fmt.Sprintf("Started draft #%d at %s", res.Entry.DraftID, at))
	case lifecycle.OutcomeRedirected:
		printlnFn("No draft for this page, redirected to", at)
	default:
		printlnFn("Nothing to open")
	}
	return nil
}

// update applies fill to an update of draft id. The stored follow-up link
// and file list are carried over unless fill replaces them.
func (a *App) update(ctx context.Context, id int, fill func(*drafts.UpdateDraftEntryArgs)) (*models.DraftEntry, error) {
	cur, err := a.store.GetDraftEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, notFound(id)
	}
	args := drafts.UpdateDraftEntryArgs{
		DraftID:        id,
		FollowUpToForm: cur.FollowUpToForm,
		ListFiles:      cur.ListFiles,
	}
	fill(&args)

	e, err := a.store.UpdateDraftEntry(ctx, args)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound(id)
	}
	return e, nil
}

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("set <id> name=value...")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	fv, err := parseFieldValues(args[1:])
	if err != nil {
		return err
	}
	e, err := a.update(ctx, id, func(u *drafts.UpdateDraftEntryArgs) {
		u.FieldValues = fv
	})
	if err != nil {
		return err
	}
	printlnFn(summary(*e))
	return nil
}

func (a *App) Status(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("status <id> <STATUS>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := models.ParseDraftStatus(strings.ToUpper(args[1]))
	if err != nil {
		return fmt.Errorf("%w, expected one of %v", err, models.DraftStatuses())
	}
	e, err := a.update(ctx, id, func(u *drafts.UpdateDraftEntryArgs) {
		u.Status = &st
	})
	if err != nil {
		return err
	}
	printlnFn(summary(*e))
	return nil
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("page <id> <n>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid page %q", args[1])
	}
	e, err := a.update(ctx, id, func(u *drafts.UpdateDraftEntryArgs) {
		u.LastPage = &n
	})
	if err != nil {
		return err
	}
	printlnFn(summary(*e))
	return nil
}

func (a *App) FollowUp(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usage("followup <parentId> <formId> [fromUrl]")
	}
	parentID, err := parseID(args[0])
	if err != nil {
		return err
	}
	link := models.FollowUpToForm{}
	if len(args) == 3 {
		link.FromURL = args[2]
	}
	e, err := a.store.CreateFollowUpDraftEntry(ctx, parentID,
		&models.DraftForm{FormID: args[1], Type: models.FormTypeForm}, link)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created follow-up draft #%d for #%d", e.DraftID, parentID))
	return nil
}

func (a *App) FollowUps(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("followups <parentId>")
	}
	parentID, err := parseID(args[0])
	if err != nil {
		return err
	}
	printEntries(a.store.GetFollowUpFormDraftEntries(parentID))
	return nil
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("attach <id> <path>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	cur, err := a.store.GetDraftEntryByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return notFound(id)
	}

	name, err := a.stager.Stage(args[1])
	if err != nil {
		return err
	}
	e, err := a.update(ctx, id, func(u *drafts.UpdateDraftEntryArgs) {
		u.ListFiles = append(u.ListFiles, name)
	})
	if err != nil {
		_ = a.stager.Remove(name)
		return err
	}
	printlnFn(fmt.Sprintf("Attached %s as %s", args[1], name))
	printlnFn(summary(*e))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("rm <id>...")
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}
	entries, err := a.store.GetDraftEntries(ctx)
	if err != nil {
		return err
	}
	var files []string
	for _, id := range ids {
		files = append(files, entries[id].ListFiles...)
	}

	if err := a.store.RemoveDraftEntries(ctx, ids); err != nil {
		return err
	}
	a.removeFiles(ctx, files)
	printlnFn(fmt.Sprintf("Removed %d draft(s)", len(ids)))
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	entries, err := a.store.GetDraftEntries(ctx)
	if err != nil {
		return err
	}
	var files []string
	for _, e := range entries {
		files = append(files, e.ListFiles...)
	}

	a.store.RemoveAllDraftEntries(ctx)
	a.removeFiles(ctx, files)
	printlnFn(fmt.Sprintf("Removed all drafts in %s", a.store.Namespace()))
	return nil
}

func (a *App) removeFiles(ctx context.Context, files []string) {
	if len(files) == 0 {
		return
	}
	if err := a.stager.Remove(files...); err != nil {
		a.logger.Warn(ctx, "some attachments were not removed", "error", err)
	}
}

func (a *App) LastError(ctx context.Context) error {
	if err := a.store.LastError(); err != nil {
		printlnFn("Last storage error:", err)
		return nil
	}
	printlnFn("No storage errors")
	return nil
}
