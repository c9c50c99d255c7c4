package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/formdraft/internal/client/attachments"
	"github.com/dmitrijs2005/formdraft/internal/client/config"
	"github.com/dmitrijs2005/formdraft/internal/client/drafts"
	"github.com/dmitrijs2005/formdraft/internal/client/lifecycle"
	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger

	stores *drafts.Stores
	store  *drafts.Store
	stager *attachments.Stager
	nav    *lifecycle.MemoryNavigator
}

// NewApp opens the draft stores on repo and prepares the attachments dir.
func NewApp(ctx context.Context, cfg *config.Config, repo kv.Repository, logger logging.Logger) (*App, error) {
	ns, err := drafts.ParseNamespace(cfg.Namespace)
	if err != nil {
		return nil, err
	}

	stores, err := drafts.OpenStores(ctx, repo, drafts.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, s := range []*drafts.Store{stores.FormData, stores.CorrectiveAction} {
		if err := s.LastError(); err != nil {
			logger.Warn(ctx, "stored drafts could not be loaded", "namespace", s.Namespace().String(), "error", err)
		}
	}

	stager, err := attachments.NewStager(cfg.AttachmentsDir)
	if err != nil {
		return nil, err
	}

	store, err := stores.Get(ns)
	if err != nil {
		return nil, err
	}

	return &App{
		config: cfg,
		logger: logger,
		stores: stores,
		store:  store,
		stager: stager,
		nav:    lifecycle.NewMemoryNavigator(lifecycle.Route{Path: "/"}),
	}, nil
}

// Run reads commands from in until "exit" or end of input.
func (a *App) Run(ctx context.Context, in io.Reader) {
	printlnFn(fmt.Sprintf("draftctl on %s storage (type 'help' for commands)", a.config.Backend))
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(in))
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", a.store.Namespace())
}

// Unlock asks for the passphrase and returns repo wrapped for at-rest
// encryption.
func Unlock(ctx context.Context, repo kv.Repository, w io.Writer) (kv.Repository, error) {
	pw, err := GetPassphrase(w)
	if err != nil {
		return nil, fmt.Errorf("error reading passphrase: %w", err)
	}
	defer wipe(pw)

	sealed, err := kv.OpenSealed(ctx, repo, pw)
	if err != nil {
		return nil, err
	}
	return sealed, nil
}
