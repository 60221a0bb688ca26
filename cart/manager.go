package cart

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager hands out one Store per user, restoring from the repository on
// first access and keeping the store alive for the life of the process.
type Manager struct {
	mu     sync.Mutex
	repo   Repository
	log    *logrus.Logger
	stores map[uint]*Store
}

func NewManager(repo Repository, log *logrus.Logger) *Manager {
	return &Manager{
		repo:   repo,
		log:    log,
		stores: map[uint]*Store{},
	}
}

// For returns the user's cart store, creating and rehydrating it if needed.
func (m *Manager) For(userID uint) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[userID]; ok {
		return s
	}
	s := NewStore(userID, m.repo, m.log.WithField("user_id", userID))
	m.stores[userID] = s
	return s
}
