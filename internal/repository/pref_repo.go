package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Preference keys. The names mirror the records persisted by earlier versions
// of the application, so existing data keeps working.
const (
	keyCurrentTab      = "conc_current_tab"
	keyActiveProjectID = "conc_active_project_id"
)

const defaultTab = "dashboard"

// PrefRepo is the key-value store for UI state: the current tab and the
// active project id. Read once at startup, written on every mutation.
type PrefRepo struct {
	rdb *redis.Client
}

func NewPrefRepo(rdb *redis.Client) *PrefRepo {
	return &PrefRepo{rdb: rdb}
}

func (r *PrefRepo) CurrentTab(ctx context.Context) (string, error) {
	val, err := r.rdb.Get(ctx, keyCurrentTab).Result()
	if errors.Is(err, redis.Nil) {
		return defaultTab, nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *PrefRepo) SetCurrentTab(ctx context.Context, tab string) error {
	return r.rdb.Set(ctx, keyCurrentTab, tab, 0).Err()
}

// ActiveProjectID returns "" when no project has been chosen yet.
func (r *PrefRepo) ActiveProjectID(ctx context.Context) (string, error) {
	val, err := r.rdb.Get(ctx, keyActiveProjectID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *PrefRepo) SetActiveProjectID(ctx context.Context, id string) error {
	return r.rdb.Set(ctx, keyActiveProjectID, id, 0).Err()
}

func (r *PrefRepo) ClearActiveProjectID(ctx context.Context) error {
	return r.rdb.Del(ctx, keyActiveProjectID).Err()
}
