package services

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"tripmate/internal/models/db_models"
	"tripmate/internal/repositories"
	"tripmate/internal/storage"
)

type fakeUserRepo struct {
	repositories.UserRepository
	users     map[uuid.UUID]*db_models.User
	createErr error
}

func newFakeUserRepo(users ...*db_models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*db_models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *db_models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*db_models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*db_models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *db_models.User) error {
	r.users[u.ID] = u
	return nil
}

type fakeTripRepo struct {
	repositories.TripRepository
	mu           sync.Mutex
	trips        map[uuid.UUID]*db_models.Trip
	participants map[uuid.UUID]*db_models.TripParticipant

	// beforeLock runs in Update before the row is read, standing in for a
	// transaction that committed first.
	beforeLock func()
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips:        make(map[uuid.UUID]*db_models.Trip),
		participants: make(map[uuid.UUID]*db_models.TripParticipant),
	}
}

func (r *fakeTripRepo) Create(_ context.Context, t *db_models.Trip) error {
	t.ID = uuid.New()
	t.Chat = &db_models.Chat{TripID: t.ID}
	t.Chat.ID = uuid.New()
	r.trips[t.ID] = t
	return nil
}

func (r *fakeTripRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTripRepo) Update(_ context.Context, id uuid.UUID, edit repositories.TripEditor) (*db_models.Trip, error) {
	if r.beforeLock != nil {
		r.beforeLock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, errRecordNotFound
	}
	cp := *t
	if err := edit(&cp); err != nil {
		return nil, err
	}
	r.trips[id] = &cp
	out := cp
	return &out, nil
}

func (r *fakeTripRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.trips, id)
	return nil
}

func (r *fakeTripRepo) CreateParticipant(_ context.Context, p *db_models.TripParticipant) error {
	p.ID = uuid.New()
	r.participants[p.ID] = p
	return nil
}

func (r *fakeTripRepo) FindParticipant(_ context.Context, tripID, userID uuid.UUID) (*db_models.TripParticipant, error) {
	for _, p := range r.participants {
		if p.TripID == tripID && p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

// UpdateParticipantStatus mirrors the transactional repository: the decider
// sees the current rows and nothing changes when it fails.
func (r *fakeTripRepo) UpdateParticipantStatus(
	_ context.Context,
	tripID, participantID uuid.UUID,
	decide repositories.ParticipantDecider,
) (*db_models.TripParticipant, *db_models.Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trip, ok := r.trips[tripID]
	p, pok := r.participants[participantID]
	if !ok || !pok || p.TripID != tripID {
		return nil, nil, errRecordNotFound
	}

	change, err := decide(trip, p)
	if err != nil {
		return nil, nil, err
	}
	trip.SpotsFilled += change.Delta
	if change.Remove {
		delete(r.participants, participantID)
	} else {
		p.Status = change.Status
	}
	return p, trip, nil
}

type fakeStorage struct {
	storage.ObjectStorage
	puts    []string
	deletes []string
	putErr  error
}

func (s *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	_, _ = io.Copy(io.Discard, body)
	s.puts = append(s.puts, key)
	return "http://cdn.test/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeStorage) KeyFromURL(url string) (string, bool) {
	const prefix = "http://cdn.test/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return "", false
	}
	return url[len(prefix):], true
}
