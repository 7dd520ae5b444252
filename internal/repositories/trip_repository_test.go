package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmate/internal/models/db_models"
	"tripmate/pkg/utils"
)

var (
	lockTripSQL        = `SELECT \* FROM "trips" WHERE id = \$1 .*FOR UPDATE`
	findParticipantSQL = `SELECT \* FROM "trip_participants" WHERE .*id = \$1 AND trip_id = \$2`
	bumpFilledSQL      = regexp.QuoteMeta(`UPDATE "trips" SET "spots_filled"=spots_filled + $1`)
)

func expectLockedTrip(mock sqlmock.Sqlmock, tripID uuid.UUID, spots, filled int) {
	mock.ExpectQuery(lockTripSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "spots", "spots_filled", "creator_id"}).
			AddRow(tripID.String(), spots, filled, uuid.NewString()))
}

func expectParticipant(mock sqlmock.Sqlmock, id, tripID uuid.UUID, status string) {
	mock.ExpectQuery(findParticipantSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id", "trip_id", "user_id", "status"}).
			AddRow(id.String(), tripID.String(), uuid.NewString(), status))
}

// approveIfRoom mirrors the server's approve rule.
func approveIfRoom(trip *db_models.Trip, p *db_models.TripParticipant) (ParticipantChange, error) {
	if trip.SpotsFilled >= trip.Spots {
		return ParticipantChange{}, utils.ErrTripFull
	}
	return ParticipantChange{Status: db_models.ParticipantApproved, Delta: 1}, nil
}

func TestTripRepository_UpdateParticipantStatusApprove(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	tripID, participantID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockedTrip(mock, tripID, 3, 1)
	expectParticipant(mock, participantID, tripID, db_models.ParticipantPending)
	mock.ExpectExec(bumpFilledSQL).
		WithArgs(1, tripID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "trip_participants" SET "status"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, trip, err := repo.UpdateParticipantStatus(context.Background(), tripID, participantID, approveIfRoom)
	require.NoError(t, err)
	assert.Equal(t, db_models.ParticipantApproved, p.Status)
	assert.Equal(t, 2, trip.SpotsFilled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_UpdateParticipantStatusFullTripRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	tripID, participantID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLockedTrip(mock, tripID, 2, 2)
	expectParticipant(mock, participantID, tripID, db_models.ParticipantPending)
	mock.ExpectRollback()

	_, _, err := repo.UpdateParticipantStatus(context.Background(), tripID, participantID, approveIfRoom)
	assert.ErrorIs(t, err, utils.ErrTripFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_UpdateParticipantStatusRemoveApproved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	tripID, participantID := uuid.New(), uuid.New()

	remove := func(_ *db_models.Trip, p *db_models.TripParticipant) (ParticipantChange, error) {
		return ParticipantChange{Status: p.Status, Delta: -1, Remove: true}, nil
	}

	mock.ExpectBegin()
	expectLockedTrip(mock, tripID, 3, 2)
	expectParticipant(mock, participantID, tripID, db_models.ParticipantApproved)
	mock.ExpectExec(bumpFilledSQL).
		WithArgs(-1, tripID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "trip_participants" WHERE "trip_participants"."id" = $1`)).
		WithArgs(participantID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, trip, err := repo.UpdateParticipantStatus(context.Background(), tripID, participantID, remove)
	require.NoError(t, err)
	assert.Equal(t, 1, trip.SpotsFilled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepository_UpdateLocksAndRejectsEdit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)
	tripID := uuid.New()

	mock.ExpectBegin()
	expectLockedTrip(mock, tripID, 4, 3)
	mock.ExpectRollback()

	var seen int
	_, err := repo.Update(context.Background(), tripID, func(trip *db_models.Trip) error {
		seen = trip.SpotsFilled
		return utils.ErrInvalidInput
	})
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.Equal(t, 3, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}
