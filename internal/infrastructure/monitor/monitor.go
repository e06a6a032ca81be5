// Package monitor samples the health of the slot store and the assistant
// gateway for the health endpoint.
package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aiplanner/backend/internal/infrastructure/slotstore"
)

// LoadingSource reports whether an AI completion is in flight.
type LoadingSource interface {
	Loading() bool
}

type Monitor struct {
	store   *slotstore.Store
	loading LoadingSource

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(store *slotstore.Store, loading LoadingSource, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		loading:  loading,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	storeOK, slots := m.checkStore()
	status := Status{
		Store:          storeOK,
		PopulatedSlots: slots,
		LastCheck:      time.Now(),
	}
	if m.loading != nil {
		status.AssistantBusy = m.loading.Loading()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	if !storeOK {
		m.logger.Warn("slot store unavailable")
	}
}

func (m *Monitor) checkStore() (bool, int) {
	if m.store == nil {
		return false, 0
	}
	size, err := m.store.Size()
	if err != nil {
		return false, 0
	}
	return true, size
}
