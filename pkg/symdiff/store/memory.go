package store

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory record store.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedRecord
	seq    int
	closed bool
}

type storedRecord struct {
	data     []byte
	info     Info
	sequence int
}

// NewMemoryStore creates a new in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedRecord),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(rec *Record) error {
	data, err := prepare(rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	seq := m.seq + 1
	if old, ok := m.data[rec.ID]; ok {
		seq = old.sequence
	} else {
		m.seq = seq
	}

	m.data[rec.ID] = storedRecord{
		data: data,
		info: Info{
			ID:        rec.ID,
			Variable:  rec.Variable,
			Order:     rec.Order,
			CreatedAt: rec.CreatedAt,
			Size:      int64(len(data)),
		},
		sequence: seq,
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return Unmarshal(stored.data)
}

// List implements Store.
func (m *MemoryStore) List() ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	records := make([]storedRecord, 0, len(m.data))
	for _, r := range m.data {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].sequence < records[j].sequence
	})

	infos := make([]Info, len(records))
	for i, r := range records {
		infos[i] = r.info
	}
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
