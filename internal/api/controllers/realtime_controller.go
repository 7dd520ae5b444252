package controllers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripmate/internal/realtime"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

const (
	ResourceChats = "chats"
	ResourceTrips = "trips"
	ResourceUsers = "users"
	ResourceFeed  = "feed"
)

type RealtimeController struct {
	hub           *realtime.Hub
	chatService   services.ChatServiceInterface
	tripService   services.TripServiceInterface
	followService services.FollowServiceInterface
	pingInterval  time.Duration
}

func NewRealtimeController(
	hub *realtime.Hub,
	chatService services.ChatServiceInterface,
	tripService services.TripServiceInterface,
	followService services.FollowServiceInterface,
) *RealtimeController {
	return &RealtimeController{
		hub:           hub,
		chatService:   chatService,
		tripService:   tripService,
		followService: followService,
		pingInterval:  25 * time.Second,
	}
}

// Stream godoc
// @Summary Subscribe to row changes of one resource
// @Description Server-Sent Events. "chats/{id}" streams new messages (members only),
// @Description "trips/{id}" streams trip and participant changes, "users/{id}" streams
// @Description follows of the caller, "feed/{id}" streams trips and experiences of the
// @Description users the caller follows plus the caller's own follow changes (the set is
// @Description fixed when the stream opens; reconnect after following someone).
// @Description Each "change" event carries {table, type, record, old, partial}.
// @Tags Realtime
// @Produce text/event-stream
// @Param resource path string true "chats, trips, users or feed"
// @Param id path string true "Resource ID"
// @Param access_token query string false "JWT for clients that cannot set headers"
// @Security BearerAuth
// @Router /realtime/{resource}/{id} [get]
func (r *RealtimeController) Stream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	resourceID, ok := parseUUIDParam(c, "id", "resource")
	if !ok {
		return
	}

	filters, ok := r.filtersFor(c, userID, c.Param("resource"), resourceID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	sub := r.hub.Subscribe(ctx, filters...)
	defer sub.Close()

	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"resource": c.Param("resource"), "id": resourceID.String()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub.Events():
			if !open {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UnixMilli())
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// filtersFor checks access to the resource and returns what to subscribe to.
// It writes the error response itself.
func (r *RealtimeController) filtersFor(c *gin.Context, userID uuid.UUID, resource string, id uuid.UUID) ([]realtime.Filter, bool) {
	ctx := c.Request.Context()
	value := id.String()

	switch resource {
	case ResourceChats:
		if err := r.chatService.CanAccess(ctx, userID, id); err != nil {
			utils.HandleServiceError(c, err)
			return nil, false
		}
		return []realtime.Filter{
			{Table: "chat_messages", Column: "chat_id", Value: value},
		}, true

	case ResourceTrips:
		if _, err := r.tripService.GetTrip(ctx, id); err != nil {
			utils.HandleServiceError(c, err)
			return nil, false
		}
		return []realtime.Filter{
			{Table: "trips", Column: "id", Value: value},
			{Table: "trip_participants", Column: "trip_id", Value: value},
		}, true

	case ResourceUsers:
		if id != userID {
			utils.HandleServiceError(c, utils.ErrForbidden)
			return nil, false
		}
		return []realtime.Filter{
			{Table: "follows", Column: "following_id", Value: value},
			{Table: "follows", Column: "follower_id", Value: value},
		}, true

	case ResourceFeed:
		if id != userID {
			utils.HandleServiceError(c, utils.ErrForbidden)
			return nil, false
		}
		following, err := r.followService.ListFollowingIDs(ctx, userID)
		if err != nil {
			utils.HandleServiceError(c, err)
			return nil, false
		}
		filters := []realtime.Filter{
			{Table: "follows", Column: "follower_id", Value: value},
		}
		for _, followed := range following {
			author := followed.String()
			filters = append(filters,
				realtime.Filter{Table: "trips", Column: "creator_id", Value: author},
				realtime.Filter{Table: "experiences", Column: "user_id", Value: author},
			)
		}
		return filters, true
	}

	utils.RespondError(c, http.StatusNotFound, "Unknown realtime resource")
	return nil, false
}
