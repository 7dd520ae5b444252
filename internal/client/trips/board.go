// Package trips holds the creator's view of a trip's participants.
package trips

import (
	"context"
	"encoding/json"
	"sync"

	"tripmate/internal/client/notify"
	"tripmate/internal/models/db_models"
	"tripmate/internal/models/request_models"
	resp "tripmate/internal/models/response_models"
	"tripmate/internal/realtime"
	"tripmate/pkg/utils"
)

type ParticipantUpdater interface {
	UpdateParticipant(ctx context.Context, tripID, participantID, action string) (*resp.ParticipantResponse, error)
}

// Board caches a trip and its participants. Counts are never computed
// locally: spots_filled always comes from the server, either in the
// loaded trip or in a realtime trip update.
type Board struct {
	mu           sync.Mutex
	trip         resp.TripResponse
	participants []resp.ParticipantResponse
	updater      ParticipantUpdater
	notifier     notify.Notifier

	OnChange func()
}

func NewBoard(trip resp.TripResponse, participants []resp.ParticipantResponse, updater ParticipantUpdater, notifier notify.Notifier) *Board {
	b := &Board{
		trip:     trip,
		updater:  updater,
		notifier: notifier,
	}
	b.participants = append(b.participants, participants...)
	return b
}

func (b *Board) Trip() resp.TripResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trip
}

func (b *Board) Participants() []resp.ParticipantResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]resp.ParticipantResponse, len(b.participants))
	copy(out, b.participants)
	return out
}

// Available is the number of open spots as last reported by the server.
func (b *Board) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trip.Spots - b.trip.SpotsFilled
}

// Approve refuses without a request when the cached trip has no open spot.
func (b *Board) Approve(ctx context.Context, participantID string) error {
	if b.Available() <= 0 {
		b.notifier.Notify(notify.Destructive, "Trip is full", "no spots left to approve this request")
		return utils.ErrTripFull
	}
	return b.update(ctx, participantID, request_models.ParticipantActionApprove)
}

func (b *Board) Reject(ctx context.Context, participantID string) error {
	return b.update(ctx, participantID, request_models.ParticipantActionReject)
}

func (b *Board) Remove(ctx context.Context, participantID string) error {
	return b.update(ctx, participantID, request_models.ParticipantActionRemove)
}

func (b *Board) update(ctx context.Context, participantID, action string) error {
	tripID := b.Trip().ID
	out, err := b.updater.UpdateParticipant(ctx, tripID, participantID, action)
	if err != nil {
		b.notifier.Notify(notify.Destructive, "Could not "+action+" participant", err.Error())
		return err
	}

	b.mu.Lock()
	if action == request_models.ParticipantActionRemove {
		b.removeParticipant(participantID)
	} else {
		b.setStatus(out.ID, out.Status)
	}
	b.mu.Unlock()

	b.changed()
	return nil
}

type tripRow struct {
	ID          string `json:"id"`
	Spots       *int   `json:"spots"`
	SpotsFilled *int   `json:"spots_filled"`
	Title       string `json:"title"`
}

type participantRow struct {
	ID     string `json:"id"`
	TripID string `json:"trip_id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// Apply folds a realtime change for this trip into the board and reports
// whether anything changed.
func (b *Board) Apply(ev realtime.Event) bool {
	b.mu.Lock()
	changed := b.apply(ev)
	b.mu.Unlock()

	if changed {
		b.changed()
	}
	return changed
}

func (b *Board) apply(ev realtime.Event) bool {
	switch ev.Table {
	case "trips":
		if ev.Type != realtime.EventUpdate {
			return false
		}
		var row tripRow
		if err := json.Unmarshal(ev.Record, &row); err != nil || row.ID != b.trip.ID {
			return false
		}
		if row.Spots != nil {
			b.trip.Spots = *row.Spots
		}
		if row.SpotsFilled != nil {
			b.trip.SpotsFilled = *row.SpotsFilled
		}
		if row.Title != "" {
			b.trip.Title = row.Title
		}
		return true

	case "trip_participants":
		var row participantRow
		raw := ev.Record
		if ev.Type == realtime.EventDelete {
			raw = ev.Old
		}
		if err := json.Unmarshal(raw, &row); err != nil || row.ID == "" || row.TripID != b.trip.ID {
			return false
		}

		switch ev.Type {
		case realtime.EventInsert:
			if b.indexOf(row.ID) >= 0 {
				return false
			}
			b.participants = append(b.participants, resp.ParticipantResponse{
				ID:     row.ID,
				TripID: row.TripID,
				UserID: row.UserID,
				Status: row.Status,
			})
			return true
		case realtime.EventUpdate:
			return b.setStatus(row.ID, row.Status)
		case realtime.EventDelete:
			return b.removeParticipant(row.ID)
		}
	}
	return false
}

// Pending lists participants still waiting for a decision.
func (b *Board) Pending() []resp.ParticipantResponse {
	var out []resp.ParticipantResponse
	for _, p := range b.Participants() {
		if p.Status == db_models.ParticipantPending {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) indexOf(id string) int {
	for i := range b.participants {
		if b.participants[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) setStatus(id, status string) bool {
	i := b.indexOf(id)
	if i < 0 || b.participants[i].Status == status {
		return false
	}
	b.participants[i].Status = status
	return true
}

func (b *Board) removeParticipant(id string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.participants = append(b.participants[:i], b.participants[i+1:]...)
	return true
}

func (b *Board) changed() {
	if b.OnChange != nil {
		b.OnChange()
	}
}
