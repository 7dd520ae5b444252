package db_models

import (
	"github.com/google/uuid"

	resp "tripmate/internal/models/response_models"
	"tripmate/pkg/utils"
)

// BuildUserResponse leaves out the email and role; BuildPrivateUserResponse
// is for the account owner and admins.
func BuildUserResponse(u *User) resp.UserResponse {
	return resp.UserResponse{
		ID:                 u.ID.String(),
		Name:               u.Name,
		Username:           u.Username,
		ProfileImage:       u.ProfileImage,
		Bio:                u.Bio,
		IsVerified:         u.IsVerified,
		VerificationReason: u.VerificationReason,
	}
}

func BuildPrivateUserResponse(u *User) resp.UserResponse {
	out := BuildUserResponse(u)
	out.Email = u.Email
	out.Role = u.Role
	return out
}

// embeddedUser returns nil when the association was not preloaded.
func embeddedUser(u *User) *resp.UserResponse {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	out := BuildUserResponse(u)
	return &out
}

func BuildTripResponse(t *Trip) resp.TripResponse {
	out := resp.TripResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Location:    t.Location,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		StartDate:   utils.FormatRFC3339(t.StartDate),
		EndDate:     utils.FormatRFC3339(t.EndDate),
		Spots:       t.Spots,
		SpotsFilled: t.SpotsFilled,
		CreatorID:   t.CreatorID.String(),
		Creator:     embeddedUser(&t.Creator),
		CreatedAt:   utils.FormatMillis(t.CreatedAt),
	}
	if t.Chat != nil {
		out.ChatID = t.Chat.ID.String()
	}
	return out
}

func BuildParticipantResponse(p *TripParticipant) resp.ParticipantResponse {
	return resp.ParticipantResponse{
		ID:     p.ID.String(),
		TripID: p.TripID.String(),
		UserID: p.UserID.String(),
		Status: p.Status,
		User:   embeddedUser(&p.User),
	}
}

func BuildExperienceResponse(e *Experience) resp.ExperienceResponse {
	categories := []string(e.Categories)
	if categories == nil {
		categories = []string{}
	}
	return resp.ExperienceResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		ImageURL:    e.ImageURL,
		UserID:      e.UserID.String(),
		User:        embeddedUser(&e.User),
		Categories:  categories,
		CreatedAt:   utils.FormatMillis(e.CreatedAt),
	}
}

func BuildChatResponse(c *Chat) resp.ChatResponse {
	return resp.ChatResponse{
		ID:        c.ID.String(),
		TripID:    c.TripID.String(),
		TripTitle: c.Trip.Title,
	}
}

func BuildChatMessageResponse(m *ChatMessage) resp.ChatMessageResponse {
	return resp.ChatMessageResponse{
		ID:        m.ID.String(),
		ChatID:    m.ChatID.String(),
		UserID:    m.UserID.String(),
		Message:   m.Message,
		CreatedAt: utils.FormatMillis(m.CreatedAt),
	}
}
