package db

import (
	"sort"
	"strings"
	"sync"

	"github.com/matheustorresii/tour-of-heroes/internal/models"
)

// MockDB is an in-memory, concurrency-safe database implementation.
type MockDB struct {
	mu     sync.RWMutex
	heroes map[int]models.Hero
}

// NewMockDB constructs a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		heroes: make(map[int]models.Hero),
	}
}

// Seed stores the given heroes with their ids as-is, replacing any with the same id.
func (m *MockDB) Seed(heroes []models.Hero) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range heroes {
		m.heroes[h.ID] = h
	}
	return nil
}

// CreateHero stores a new hero under the next free id.
func (m *MockDB) CreateHero(h models.Hero) (models.Hero, error) {
	if strings.TrimSpace(h.Name) == "" {
		return models.Hero{}, ErrInvalidHero
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	h.ID = m.nextIDLocked()
	m.heroes[h.ID] = h
	return h, nil
}

func (m *MockDB) nextIDLocked() int {
	if len(m.heroes) == 0 {
		return firstHeroID
	}
	maxID := 0
	for id := range m.heroes {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// GetHero retrieves a hero by ID.
func (m *MockDB) GetHero(id int) (models.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.heroes[id]
	if !ok {
		return models.Hero{}, ErrHeroNotFound
	}
	return h, nil
}

// ListHeroes returns every hero ordered by id.
func (m *MockDB) ListHeroes() ([]models.Hero, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]models.Hero, 0, len(m.heroes))
	for _, h := range m.heroes {
		list = append(list, h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// SearchHeroes returns heroes whose name contains term, ignoring case.
func (m *MockDB) SearchHeroes(term string) ([]models.Hero, error) {
	all, err := m.ListHeroes()
	if err != nil {
		return nil, err
	}
	return filterByName(all, term), nil
}

// UpdateHero replaces the stored record with the given id.
func (m *MockDB) UpdateHero(h models.Hero) (models.Hero, error) {
	if strings.TrimSpace(h.Name) == "" {
		return models.Hero{}, ErrInvalidHero
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.heroes[h.ID]; !ok {
		return models.Hero{}, ErrHeroNotFound
	}
	m.heroes[h.ID] = h
	return h, nil
}

// DeleteHero removes a hero by ID.
func (m *MockDB) DeleteHero(id int) (models.Hero, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.heroes[id]
	if !ok {
		return models.Hero{}, ErrHeroNotFound
	}
	delete(m.heroes, id)
	return h, nil
}
