package drafts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/formdraft/internal/client/repositories/kv"
	"github.com/dmitrijs2005/formdraft/internal/common"
)

// Stores holds one opened store per namespace.
type Stores struct {
	FormData         *Store
	CorrectiveAction *Store
}

// OpenStores creates and opens a store for each namespace in repo.
func OpenStores(ctx context.Context, repo kv.Repository, opts ...Option) (*Stores, error) {
	s := &Stores{
		FormData:         NewStore(repo, NamespaceFormData, opts...),
		CorrectiveAction: NewStore(repo, NamespaceCorrectiveAction, opts...),
	}
	for _, st := range []*Store{s.FormData, s.CorrectiveAction} {
		if err := st.Open(ctx); err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", st.Namespace(), err)
		}
	}
	return s, nil
}

// Get returns the store for ns.
func (s *Stores) Get(ns Namespace) (*Store, error) {
	switch ns {
	case NamespaceFormData:
		return s.FormData, nil
	case NamespaceCorrectiveAction:
		return s.CorrectiveAction, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownNamespace, ns)
}
