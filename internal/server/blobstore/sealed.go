package blobstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cahierdeveille/internal/cryptox"
)

const keySalt = "cahierdeveille/blobstore/v1"

// SealedStore encrypts objects before handing them to the wrapped Store.
type SealedStore struct {
	inner Store
	key   []byte
}

// NewSealedStore derives the object key from passphrase.
func NewSealedStore(inner Store, passphrase string) *SealedStore {
	return &SealedStore{
		inner: inner,
		key:   cryptox.DeriveKey([]byte(passphrase), []byte(keySalt)),
	}
}

func (s *SealedStore) Put(ctx context.Context, key string, data []byte) error {
	sealed, err := cryptox.Seal(data, s.key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.inner.Put(ctx, key, sealed)
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, err)
	}
	return plain, nil
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
