package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/studenton/studenton/internal/models"
)

// The whole state is one JSON record under a fixed key, the way the
// original localStorage-backed deployment kept it. There is no schema
// version; fields added later default when older blobs are read.
const storageKey = "sms-storage"

type state struct {
	Students []models.Student `json:"students"`
	Teachers []models.Teacher `json:"teachers"`
}

type kvdb struct {
	db *sql.DB
}

func openKV(path string) (*kvdb, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS storage (key TEXT PRIMARY KEY, value BLOB NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init storage table: %w", err)
	}
	return &kvdb{db: db}, nil
}

func (k *kvdb) close() error { return k.db.Close() }

func (k *kvdb) ping() error { return k.db.Ping() }

// load returns nil when no record has been written yet.
func (k *kvdb) load() (*state, error) {
	var blob []byte
	err := k.db.QueryRow(`SELECT value FROM storage WHERE key = ?`, storageKey).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	var st state
	if err := json.Unmarshal(blob, &st); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &st, nil
}

func (k *kvdb) save(st *state) error {
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = k.db.Exec(
		`INSERT INTO storage (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		storageKey, blob,
	)
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
