package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

type MemorySavedPassengerRepository struct {
	mu         sync.RWMutex
	passengers map[string]domain.SavedPassenger
}

func NewMemorySavedPassengerRepository() *MemorySavedPassengerRepository {
	return &MemorySavedPassengerRepository{passengers: make(map[string]domain.SavedPassenger)}
}

func (r *MemorySavedPassengerRepository) List(_ context.Context, query string) ([]domain.SavedPassenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	result := make([]domain.SavedPassenger, 0, len(r.passengers))
	for _, p := range r.passengers {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result, nil
}

func matchesQuery(p domain.SavedPassenger, q string) bool {
	return strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q) ||
		strings.Contains(strings.ToLower(p.Email), q)
}

func (r *MemorySavedPassengerRepository) GetByID(_ context.Context, id string) (*domain.SavedPassenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.passengers[id]
	if !ok {
		return nil, errs.ErrPassengerNotFound
	}
	return &p, nil
}

func (r *MemorySavedPassengerRepository) Create(_ context.Context, p *domain.SavedPassenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passengers[p.ID] = *p
	return nil
}

func (r *MemorySavedPassengerRepository) Update(_ context.Context, p *domain.SavedPassenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passengers[p.ID]; !ok {
		return errs.ErrPassengerNotFound
	}
	r.passengers[p.ID] = *p
	return nil
}

func (r *MemorySavedPassengerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passengers[id]; !ok {
		return errs.ErrPassengerNotFound
	}
	delete(r.passengers, id)
	return nil
}

var _ SavedPassengerRepository = (*MemorySavedPassengerRepository)(nil)
