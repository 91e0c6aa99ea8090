package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliakborswe/travel-buddy-client/internal/state"
)

// snapshotKeyPrefix is the fixed name the durable session record lives under,
// scoped per browser session id.
const snapshotKeyPrefix = "authState:"

// snapshotTTL bounds how long an untouched session snapshot survives.
const snapshotTTL = 7 * 24 * time.Hour

// RedisPersister stores session snapshots in Redis, one JSON record per
// session id.
type RedisPersister struct {
	client *redis.Client
	key    string
}

func NewRedisPersister(client *redis.Client, sid string) *RedisPersister {
	return &RedisPersister{client: client, key: snapshotKeyPrefix + sid}
}

func (p *RedisPersister) Load(ctx context.Context) (*state.Snapshot, error) {
	raw, err := p.client.Get(ctx, p.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap state.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// A corrupt record is as good as no record.
		_ = p.client.Del(ctx, p.key).Err()
		return nil, nil
	}
	return &snap, nil
}

func (p *RedisPersister) Save(ctx context.Context, snap *state.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, p.key, raw, snapshotTTL).Err()
}

func (p *RedisPersister) Clear(ctx context.Context) error {
	return p.client.Del(ctx, p.key).Err()
}

// FilePersister stores the snapshot as one JSON file per session id. It is
// the fallback when no Redis address is configured (local development).
type FilePersister struct {
	path string
}

func NewFilePersister(dir, sid string) *FilePersister {
	return &FilePersister{path: filepath.Join(dir, "authState-"+sid+".json")}
}

func (p *FilePersister) Load(_ context.Context) (*state.Snapshot, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap state.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		_ = os.Remove(p.path)
		return nil, nil
	}
	return &snap, nil
}

func (p *FilePersister) Save(_ context.Context, snap *state.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(p.path, raw, 0o600)
}

func (p *FilePersister) Clear(_ context.Context) error {
	err := os.Remove(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
