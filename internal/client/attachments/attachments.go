// Package attachments stages files referenced by a draft's listFiles.
//
// Staged copies get random names so several drafts can attach files with
// the same base name.
package attachments

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/dmitrijs2005/formdraft/internal/filex"
	"github.com/google/uuid"
)

type Stager struct {
	dir string
}

// NewStager creates dir if needed.
func NewStager(dir string) (*Stager, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error creating attachments dir: %w", err)
	}
	return &Stager{dir: abs}, nil
}

func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies src into the staging dir and returns the staged name, which
// keeps the source extension.
func (s *Stager) Stage(src string) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(src))
	if _, err := filex.CopyFile(filepath.Join(s.dir, name), src); err != nil {
		return "", fmt.Errorf("error staging %s: %w", src, err)
	}
	return name, nil
}

// Path returns the location of a staged name.
func (s *Stager) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: attachment %q", common.ErrorNotFound, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes staged files. Names that are already gone are skipped.
func (s *Stager) Remove(names ...string) error {
	var errs []error
	for _, name := range names {
		p, err := s.Path(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("error removing %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
