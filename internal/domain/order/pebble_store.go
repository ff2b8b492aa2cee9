package order

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/pebble"
)

const draftKeyPrefix = "draft/"

// PebbleDraftStore локальное хранилище черновиков на PebbleDB (для стойки без доступа к базе).
type PebbleDraftStore struct {
	db *pebble.DB
}

func NewPebbleDraftStore(dir string) (*PebbleDraftStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleDraftStore{db: d}, nil
}

func (p *PebbleDraftStore) Close() error { return p.db.Close() }

func draftKey(chatID int64) []byte {
	return []byte(draftKeyPrefix + strconv.FormatInt(chatID, 10))
}

func (p *PebbleDraftStore) Get(_ context.Context, chatID int64) ([]byte, error) {
	v, closer, err := p.db.Get(draftKey(chatID))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

// Put пишет с синхронизацией WAL: черновик сохраняется после каждого действия клерка.
func (p *PebbleDraftStore) Put(_ context.Context, chatID int64, raw []byte) error {
	return p.db.Set(draftKey(chatID), raw, pebble.Sync)
}

func (p *PebbleDraftStore) Delete(_ context.Context, chatID int64) error {
	return p.db.Delete(draftKey(chatID), pebble.Sync)
}
