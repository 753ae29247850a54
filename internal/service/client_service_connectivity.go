package service

import (
	"context"
	"sync"
	"time"

	"github.com/fleetzen/fleetzen/internal/adapter"
	"github.com/fleetzen/fleetzen/internal/logger"
)

const defaultConnectivityInterval = 15 * time.Second

type connectivityMonitor struct {
	adapter  adapter.ServerAdapter
	interval time.Duration

	mu     sync.Mutex
	online bool
	subs   map[int]chan struct{}
	nextID int

	logger *logger.Logger
}

// NewConnectivityMonitor returns a monitor that probes the intake server's
// health endpoint every interval. It starts in the offline state, so the
// first successful probe notifies subscribers.
func NewConnectivityMonitor(serverAdapter adapter.ServerAdapter, interval time.Duration, logger *logger.Logger) ConnectivityMonitor {
	if interval <= 0 {
		interval = defaultConnectivityInterval
	}

	return &connectivityMonitor{
		adapter:  serverAdapter,
		interval: interval,
		subs:     make(map[int]chan struct{}),
		logger:   logger,
	}
}

func (m *connectivityMonitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *connectivityMonitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.adapter.Ping(probeCtx)
	if err != nil && ctx.Err() != nil {
		// shutting down, keep the last known state
		return m.Online()
	}

	online := err == nil
	m.set(online)
	if err != nil {
		m.logger.Debug().Err(err).
			Str("func", "connectivityMonitor.Check").
			Msg("intake server unreachable")
	}

	return online
}

func (m *connectivityMonitor) Subscribe() (<-chan struct{}, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan struct{}, 1)
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

func (m *connectivityMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

func (m *connectivityMonitor) set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return
	}
	m.online = online

	m.logger.Info().
		Str("func", "connectivityMonitor.set").
		Bool("online", online).
		Msg("connectivity changed")

	if !online {
		return
	}
	for _, ch := range m.subs {
		// a pending signal already covers this transition
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
