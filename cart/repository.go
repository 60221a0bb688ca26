package cart

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"foodie-api/models"
)

// Repository persists cart snapshots, one blob per user. Load returns
// (nil, nil) when no snapshot exists.
type Repository interface {
	Load(userID uint) (*Snapshot, error)
	Save(userID uint, snap Snapshot) error
}

// GormRepository stores snapshots as JSON blobs in the cart_records table.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Load(userID uint) (*Snapshot, error) {
	var rec models.CartRecord
	if err := r.db.First(&rec, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(rec.Payload), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *GormRepository) Save(userID uint, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	rec := models.CartRecord{
		UserID:    userID,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return r.db.Save(&rec).Error
}

// MemoryRepository is an in-process Repository used by tests.
type MemoryRepository struct {
	mu    sync.Mutex
	snaps map[uint]Snapshot
	// FailSaves makes every Save return an error, to exercise the
	// best-effort persistence path.
	FailSaves bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{snaps: map[uint]Snapshot{}}
}

var errSaveFailed = errors.New("save failed")

func (r *MemoryRepository) Load(userID uint) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snaps[userID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (r *MemoryRepository) Save(userID uint, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSaves {
		return errSaveFailed
	}
	r.snaps[userID] = snap
	return nil
}
