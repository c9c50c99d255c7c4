package kv

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/formdraft/internal/common"
	"github.com/dmitrijs2005/formdraft/internal/cryptox"
)

// Reserved keys written next to sealed values. They are hidden from List
// and survive Clear.
const (
	SaltKey     = "formdraft:salt"
	VerifierKey = "formdraft:verifier"
)

const saltSize = 16

// SealedRepository encrypts every value before handing it to the wrapped
// Repository. Keys stay in clear text.
type SealedRepository struct {
	inner Repository
	key   []byte
}

var _ Repository = (*SealedRepository)(nil)

// OpenSealed derives the encryption key from passphrase. On first use it
// stores a random salt and a key verifier in inner; afterwards a passphrase
// that does not match the verifier fails with common.ErrWrongPassphrase.
func OpenSealed(ctx context.Context, inner Repository, passphrase []byte) (*SealedRepository, error) {
	salt, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = common.GenerateRandByteArray(saltSize)
		if err := inner.Set(ctx, SaltKey, salt); err != nil {
			return nil, err
		}
	}

	key := cryptox.DeriveKey(passphrase, salt)
	verifier := cryptox.MakeVerifier(key)

	stored, err := inner.Get(ctx, VerifierKey)
	if err != nil {
		return nil, err
	}
	switch {
	case stored == nil:
		if err := inner.Set(ctx, VerifierKey, verifier); err != nil {
			return nil, err
		}
	case subtle.ConstantTimeCompare(stored, verifier) != 1:
		return nil, common.ErrWrongPassphrase
	}

	return &SealedRepository{inner: inner, key: key}, nil
}

func (r *SealedRepository) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := r.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}
	plain, err := cryptox.Open(sealed, r.key)
	if err != nil {
		return nil, fmt.Errorf("kv[%s]: %w: %v", key, common.ErrSealedValue, err)
	}
	return plain, nil
}

func (r *SealedRepository) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, r.key)
	if err != nil {
		return fmt.Errorf("failed to seal kv[%s]: %w", key, err)
	}
	return r.inner.Set(ctx, key, sealed)
}

func (r *SealedRepository) Delete(ctx context.Context, key string) error {
	return r.inner.Delete(ctx, key)
}

func (r *SealedRepository) List(ctx context.Context) (map[string][]byte, error) {
	all, err := r.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(all))
	for k, v := range all {
		if isReserved(k) {
			continue
		}
		plain, err := cryptox.Open(v, r.key)
		if err != nil {
			return nil, fmt.Errorf("kv[%s]: %w: %v", k, common.ErrSealedValue, err)
		}
		out[k] = plain
	}
	return out, nil
}

func (r *SealedRepository) Clear(ctx context.Context) error {
	all, err := r.inner.List(ctx)
	if err != nil {
		return err
	}
	for k := range all {
		if isReserved(k) {
			continue
		}
		if err := r.inner.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func isReserved(key string) bool {
	return key == SaltKey || key == VerifierKey
}
