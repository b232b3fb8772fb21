package journal

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory Journal for tests and dry runs.
type Memory struct {
	mu     sync.RWMutex
	trades []TradeRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Append(t TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) ListClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TradeRecord
	for _, t := range m.trades {
		if !t.ExitTime.Before(start) && !t.ExitTime.After(end) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExitTime.Before(out[j].ExitTime) })
	return out, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trades)
}

func (m *Memory) Close() error { return nil }
