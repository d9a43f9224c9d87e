// Package store persists status snapshots keyed by a storage path. Each path
// holds exactly one JSON document; writes replace the previous value.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/caiqy/claude-usage-hub/internal/models"
)

// ErrNotFound is returned by Get when no snapshot exists at the path.
var ErrNotFound = errors.New("status store: not found")

// mirrorTTL bounds how long a stale redis mirror can outlive the database row.
const mirrorTTL = 24 * time.Hour

// StatusStore writes status snapshots to the database and, when configured,
// mirrors them into redis for cheap reads by other consumers.
type StatusStore struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewStatusStore builds a store over the given database handle. redisClient
// may be nil; mirroring is then disabled.
func NewStatusStore(conn *gorm.DB, redisClient *redis.Client) *StatusStore {
	return &StatusStore{db: conn, redis: redisClient}
}

// Put marshals payload and stores it at path, overwriting any existing
// snapshot. The redis mirror is best effort: a mirror failure is logged and
// does not fail the write.
func (s *StatusStore) Put(ctx context.Context, path string, payload any) error {
	if s == nil || s.db == nil {
		return errors.New("status store: db not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if path == "" {
		return errors.New("status store: empty path")
	}

	data, errMarshal := json.Marshal(payload)
	if errMarshal != nil {
		return errMarshal
	}

	now := time.Now().UTC()
	var existing models.StatusRecord
	errFind := s.db.WithContext(ctx).Where("path = ?", path).First(&existing).Error
	switch {
	case errFind == nil:
		errWrite := s.db.WithContext(ctx).
			Model(&models.StatusRecord{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"data":       datatypes.JSON(data),
				"updated_at": now,
			}).Error
		if errWrite != nil {
			return errWrite
		}
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		row := models.StatusRecord{
			Path:      path,
			Data:      datatypes.JSON(data),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if errCreate := s.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
			return errCreate
		}
	default:
		return errFind
	}

	s.mirror(ctx, path, data)
	return nil
}

// Get returns the raw snapshot stored at path and the time it was written.
func (s *StatusStore) Get(ctx context.Context, path string) (json.RawMessage, time.Time, error) {
	if s == nil || s.db == nil {
		return nil, time.Time{}, errors.New("status store: db not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var row models.StatusRecord
	errFind := s.db.WithContext(ctx).Where("path = ?", path).First(&row).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, time.Time{}, ErrNotFound
	}
	if errFind != nil {
		return nil, time.Time{}, errFind
	}
	return json.RawMessage(row.Data), row.UpdatedAt, nil
}

func (s *StatusStore) mirror(ctx context.Context, path string, data []byte) {
	if s.redis == nil {
		return
	}
	if errSet := s.redis.Set(ctx, path, data, mirrorTTL).Err(); errSet != nil {
		log.WithError(errSet).Warn("status store: redis mirror failed")
	}
}
