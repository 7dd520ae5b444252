package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/repositories"
	"tripmate/pkg/utils"
)

type TripServiceInterface interface {
	CreateTrip(ctx context.Context, creatorID uuid.UUID, request request_models.CreateTripRequest) (*resp.TripResponse, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*resp.TripResponse, error)
	ListTrips(ctx context.Context, page, pageSize int) ([]resp.TripResponse, error)
	UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, request request_models.UpdateTripRequest) (*resp.TripResponse, error)
	DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error
	RequestToJoin(ctx context.Context, userID, tripID uuid.UUID) (*resp.ParticipantResponse, error)
	ListParticipants(ctx context.Context, tripID uuid.UUID) ([]resp.ParticipantResponse, error)
	UpdateParticipantStatus(ctx context.Context, userID, tripID, participantID uuid.UUID, action string) (*resp.ParticipantResponse, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

func NewTripService(tripRepo repositories.TripRepository, logger *zap.Logger) TripServiceInterface {
	return &TripService{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

func (s *TripService) CreateTrip(ctx context.Context, creatorID uuid.UUID, request request_models.CreateTripRequest) (*resp.TripResponse, error) {
	if request.EndDate.Before(request.StartDate) {
		return nil, utils.ErrInvalidInput
	}

	trip := &db_models.Trip{
		Title:       strings.TrimSpace(request.Title),
		Description: strings.TrimSpace(request.Description),
		Location:    strings.TrimSpace(request.Location),
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
		Spots:       request.Spots,
		CreatorID:   creatorID,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		s.logger.Error("create trip", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildTripResponse(trip)
	return &out, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*resp.TripResponse, error) {
	trip, err := s.requireTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := db_models.BuildTripResponse(trip)
	return &out, nil
}

func (s *TripService) ListTrips(ctx context.Context, page, pageSize int) ([]resp.TripResponse, error) {
	trips, err := s.tripRepo.List(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("list trips", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.TripResponse, 0, len(trips))
	for i := range trips {
		out = append(out, db_models.BuildTripResponse(&trips[i]))
	}
	return out, nil
}

func (s *TripService) UpdateTrip(ctx context.Context, userID, tripID uuid.UUID, request request_models.UpdateTripRequest) (*resp.TripResponse, error) {
	owned, err := s.requireOwnedTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.Update(ctx, tripID, func(trip *db_models.Trip) error {
		return applyTripUpdate(trip, request)
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidInput):
			return nil, utils.ErrInvalidInput
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, utils.ErrTripNotFound
		}
		s.logger.Error("update trip", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	trip.Creator = owned.Creator
	trip.Chat = owned.Chat
	out := db_models.BuildTripResponse(trip)
	return &out, nil
}

// applyTripUpdate runs against the locked row, so the capacity check sees
// the committed approved headcount.
func applyTripUpdate(trip *db_models.Trip, request request_models.UpdateTripRequest) error {
	if request.Title != nil {
		trip.Title = strings.TrimSpace(*request.Title)
	}
	if request.Description != nil {
		trip.Description = strings.TrimSpace(*request.Description)
	}
	if request.Location != nil {
		trip.Location = strings.TrimSpace(*request.Location)
	}
	if request.StartDate != nil {
		trip.StartDate = *request.StartDate
	}
	if request.EndDate != nil {
		trip.EndDate = *request.EndDate
	}
	if request.Spots != nil {
		// capacity can't drop below the approved headcount
		if *request.Spots < trip.SpotsFilled {
			return utils.ErrInvalidInput
		}
		trip.Spots = *request.Spots
	}
	if trip.EndDate.Before(trip.StartDate) || trip.Title == "" || trip.Location == "" {
		return utils.ErrInvalidInput
	}
	return nil
}

func (s *TripService) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := s.requireOwnedTrip(ctx, userID, tripID); err != nil {
		return err
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		s.logger.Error("delete trip", zap.Error(err))
		return utils.ErrDatabaseError
	}
	return nil
}

func (s *TripService) RequestToJoin(ctx context.Context, userID, tripID uuid.UUID) (*resp.ParticipantResponse, error) {
	trip, err := s.requireTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CreatorID == userID {
		return nil, utils.ErrCannotJoinOwnTrip
	}

	existing, err := s.tripRepo.FindParticipant(ctx, tripID, userID)
	if err != nil {
		s.logger.Error("find participant", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		return nil, utils.ErrAlreadyRequested
	}

	participant := &db_models.TripParticipant{
		TripID: tripID,
		UserID: userID,
		Status: db_models.ParticipantPending,
	}
	if err := s.tripRepo.CreateParticipant(ctx, participant); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrAlreadyRequested
		}
		s.logger.Error("create participant", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := db_models.BuildParticipantResponse(participant)
	return &out, nil
}

func (s *TripService) ListParticipants(ctx context.Context, tripID uuid.UUID) ([]resp.ParticipantResponse, error) {
	if _, err := s.requireTrip(ctx, tripID); err != nil {
		return nil, err
	}

	participants, err := s.tripRepo.ListParticipants(ctx, tripID)
	if err != nil {
		s.logger.Error("list participants", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	out := make([]resp.ParticipantResponse, 0, len(participants))
	for i := range participants {
		out = append(out, db_models.BuildParticipantResponse(&participants[i]))
	}
	return out, nil
}

// UpdateParticipantStatus applies approve, reject or remove on behalf of the
// trip creator. Capacity is checked against the locked trip row, so two
// approvals racing for the last spot cannot both succeed.
func (s *TripService) UpdateParticipantStatus(ctx context.Context, userID, tripID, participantID uuid.UUID, action string) (*resp.ParticipantResponse, error) {
	decide, err := participantDecider(action)
	if err != nil {
		return nil, err
	}

	if _, err := s.requireOwnedTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	participant, trip, err := s.tripRepo.UpdateParticipantStatus(ctx, tripID, participantID, decide)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTripFull):
			return nil, utils.ErrTripFull
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, utils.ErrParticipantNotFound
		}
		s.logger.Error("update participant status", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	s.logger.Info("participant status changed",
		zap.String("trip_id", tripID.String()),
		zap.String("participant_id", participantID.String()),
		zap.String("action", action),
		zap.Int("spots_filled", trip.SpotsFilled))

	out := db_models.BuildParticipantResponse(participant)
	return &out, nil
}

// participantDecider maps an action to the transition applied under the trip
// lock. spots_filled moves only when a participant enters or leaves the
// approved state.
func participantDecider(action string) (repositories.ParticipantDecider, error) {
	switch action {
	case request_models.ParticipantActionApprove:
		return func(trip *db_models.Trip, p *db_models.TripParticipant) (repositories.ParticipantChange, error) {
			if p.Status == db_models.ParticipantApproved {
				return repositories.ParticipantChange{Status: p.Status}, nil
			}
			if trip.SpotsFilled >= trip.Spots {
				return repositories.ParticipantChange{}, utils.ErrTripFull
			}
			return repositories.ParticipantChange{Status: db_models.ParticipantApproved, Delta: 1}, nil
		}, nil

	case request_models.ParticipantActionReject:
		return func(_ *db_models.Trip, p *db_models.TripParticipant) (repositories.ParticipantChange, error) {
			change := repositories.ParticipantChange{Status: db_models.ParticipantRejected}
			if p.Status == db_models.ParticipantApproved {
				change.Delta = -1
			}
			return change, nil
		}, nil

	case request_models.ParticipantActionRemove:
		return func(_ *db_models.Trip, p *db_models.TripParticipant) (repositories.ParticipantChange, error) {
			change := repositories.ParticipantChange{Status: p.Status, Remove: true}
			if p.Status == db_models.ParticipantApproved {
				change.Delta = -1
			}
			return change, nil
		}, nil
	}

	return nil, utils.ErrInvalidInput
}

func (s *TripService) requireTrip(ctx context.Context, tripID uuid.UUID) (*db_models.Trip, error) {
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		s.logger.Error("find trip", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func (s *TripService) requireOwnedTrip(ctx context.Context, userID, tripID uuid.UUID) (*db_models.Trip, error) {
	trip, err := s.requireTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CreatorID != userID {
		return nil, utils.ErrForbidden
	}
	return trip, nil
}
