package controllers

import (
	"github.com/gin-gonic/gin"

	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type FeedController struct {
	feedService services.FeedServiceInterface
}

func NewFeedController(feedService services.FeedServiceInterface) *FeedController {
	return &FeedController{
		feedService: feedService,
	}
}

// GetFeed godoc
// @Summary Get my feed
// @Description Trips and experiences from followed users, newest first
// @Tags Feed
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {array} response_models.FeedItem
// @Security BearerAuth
// @Router /feed [get]
func (f *FeedController) GetFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	items, err := f.feedService.GetFeed(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, items, "Feed fetched successfully")
}
