package store

import (
	"context"
	"sync"

	"viewing-scheduler-server/internal/models"
)

// MemoryStore keeps appointments in a slice, in insertion order.
type MemoryStore struct {
	mu           sync.RWMutex
	appointments []models.Appointment
	seq          int64
	opts         Options
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{opts: opts}
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Appointment{}, ErrNotFound
	}
	return s.appointments[i], nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, patch models.AppointmentPatch) (models.Appointment, error) {
	a, err := s.opts.newAppointment(patch)
	if err != nil {
		return models.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = models.NewID()
	for s.indexOf(a.ID) >= 0 {
		a.ID = models.NewID()
	}
	s.seq++
	a.Seq = s.seq
	a.CreatedAt = s.opts.now()
	a.UpdatedAt = a.CreatedAt
	s.appointments = append(s.appointments, a)
	return a, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, patch models.AppointmentPatch) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Appointment{}, ErrNotFound
	}
	updated, err := s.opts.merge(s.appointments[i], patch)
	if err != nil {
		return models.Appointment{}, err
	}
	updated.UpdatedAt = s.opts.now()
	s.appointments[i] = updated
	return updated, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.appointments = append(s.appointments[:i], s.appointments[i+1:]...)
	return nil
}

// Seed inserts appointments with their ids kept, only into an empty store.
func (s *MemoryStore) Seed(_ context.Context, appointments []models.Appointment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.appointments) > 0 {
		return 0, nil
	}
	now := s.opts.now()
	for _, a := range appointments {
		if a.ID == "" {
			a.ID = models.NewID()
		}
		s.seq++
		a.Seq = s.seq
		a.CreatedAt, a.UpdatedAt = now, now
		s.appointments = append(s.appointments, a)
	}
	return len(appointments), nil
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			return i
		}
	}
	return -1
}
