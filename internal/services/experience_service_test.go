package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type fakeExperienceRepo struct {
	repositories.ExperienceRepository
	rows      map[uuid.UUID]*db_models.Experience
	createErr error
}

func newFakeExperienceRepo() *fakeExperienceRepo {
	return &fakeExperienceRepo{rows: make(map[uuid.UUID]*db_models.Experience)}
}

func (r *fakeExperienceRepo) Create(_ context.Context, e *db_models.Experience) error {
	if r.createErr != nil {
		return r.createErr
	}
	e.ID = uuid.New()
	r.rows[e.ID] = e
	return nil
}

func (r *fakeExperienceRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Experience, error) {
	return r.rows[id], nil
}

func (r *fakeExperienceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func TestExperienceService_Create(t *testing.T) {
	repo := newFakeExperienceRepo()
	store := &fakeStorage{}
	svc := NewExperienceService(repo, store, 1<<20, zap.NewNop())
	owner := uuid.New()

	out, err := svc.CreateExperience(context.Background(), owner, request_models.CreateExperienceRequest{
		Title:      "Sunrise hike",
		Location:   "Mt. Batur",
		Categories: []string{"Hiking, nature", "hiking"},
	}, avatarHeader(t))
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	assert.Equal(t, "http://cdn.test/"+store.puts[0], out.ImageURL)
	assert.Equal(t, []string{"hiking", "nature"}, out.Categories)
	assert.Len(t, repo.rows, 1)
}

func TestExperienceService_CreateInsertFailureDeletesUpload(t *testing.T) {
	repo := newFakeExperienceRepo()
	repo.createErr = errors.New("insert failed")
	store := &fakeStorage{}
	svc := NewExperienceService(repo, store, 1<<20, zap.NewNop())

	_, err := svc.CreateExperience(context.Background(), uuid.New(), request_models.CreateExperienceRequest{
		Title: "Lost", Location: "Nowhere",
	}, avatarHeader(t))
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	require.Len(t, store.puts, 1)
	assert.Equal(t, store.puts, store.deletes)
}

func TestExperienceService_CreateRejectsBadImageBeforeUpload(t *testing.T) {
	store := &fakeStorage{}
	svc := NewExperienceService(newFakeExperienceRepo(), store, 1<<20, zap.NewNop())

	_, err := svc.CreateExperience(context.Background(), uuid.New(), request_models.CreateExperienceRequest{
		Title: "No image", Location: "Here",
	}, nil)
	assert.ErrorIs(t, err, utils.ErrInvalidFile)
	assert.Empty(t, store.puts)
}

func TestExperienceService_DeleteOwnerOnly(t *testing.T) {
	repo := newFakeExperienceRepo()
	store := &fakeStorage{}
	svc := NewExperienceService(repo, store, 1<<20, zap.NewNop())
	owner := uuid.New()

	e := &db_models.Experience{UserID: owner, ImageKey: "experiences/x.png"}
	require.NoError(t, repo.Create(context.Background(), e))

	assert.ErrorIs(t, svc.DeleteExperience(context.Background(), uuid.New(), e.ID), utils.ErrForbidden)
	require.NoError(t, svc.DeleteExperience(context.Background(), owner, e.ID))
	assert.Empty(t, repo.rows)
	assert.Equal(t, []string{"experiences/x.png"}, store.deletes)

	assert.ErrorIs(t, svc.DeleteExperience(context.Background(), owner, e.ID), utils.ErrExperienceNotFound)
}
