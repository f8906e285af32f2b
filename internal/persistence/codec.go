package persistence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mikimauro/scanbiz/internal/common"
	"github.com/mikimauro/scanbiz/internal/cryptox"
	"github.com/mikimauro/scanbiz/internal/kv"
)

// sealedPrefix marks blobs written by SealedCodec.
var sealedPrefix = []byte("sbz1:")

// Codec transforms the JSON text of a collection on its way to and from storage.
type Codec interface {
	Encode(plain []byte) ([]byte, error)
	Decode(stored []byte) ([]byte, error)
}

// PlainCodec stores JSON as is. Sealed blobs cannot be read without the
// passphrase and are reported as common.ErrSealedData.
type PlainCodec struct{}

func (PlainCodec) Encode(plain []byte) ([]byte, error) {
	return plain, nil
}

func (PlainCodec) Decode(stored []byte) ([]byte, error) {
	if bytes.HasPrefix(stored, sealedPrefix) {
		return nil, common.ErrSealedData
	}
	return stored, nil
}

// SealedCodec encrypts blobs with a passphrase-derived key. Blobs without the
// sealed prefix are read as plain JSON, so existing data is sealed on its next
// write.
type SealedCodec struct {
	key []byte
}

func NewSealedCodec(key []byte) *SealedCodec {
	return &SealedCodec{key: key}
}

// OpenSealedCodec derives the key for passphrase using the salt stored under
// SaltKey, creating and storing a new salt on first use.
func OpenSealedCodec(ctx context.Context, repo kv.Repository, passphrase []byte) (*SealedCodec, error) {
	salt, err := repo.Get(ctx, SaltKey)
	if err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if salt == nil {
		salt = cryptox.NewSalt()
		if err := repo.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("store salt: %w", err)
		}
	}
	return NewSealedCodec(cryptox.DeriveKey(passphrase, salt)), nil
}

func (c *SealedCodec) Encode(plain []byte) ([]byte, error) {
	sealed, err := cryptox.Seal(plain, c.key)
	if err != nil {
		return nil, err
	}
	return append(append([]byte(nil), sealedPrefix...), sealed...), nil
}

func (c *SealedCodec) Decode(stored []byte) ([]byte, error) {
	if !bytes.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	plain, err := cryptox.Open(stored[len(sealedPrefix):], c.key)
	if err != nil {
		return nil, fmt.Errorf("open sealed blob: %w", err)
	}
	return plain, nil
}

// Wipe zeroes the derived key.
func (c *SealedCodec) Wipe() {
	common.WipeByteArray(c.key)
}
