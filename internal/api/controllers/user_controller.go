package controllers

import (
	"github.com/gin-gonic/gin"

	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type UserController struct {
	accountService    services.AccountServiceInterface
	followService     services.FollowServiceInterface
	experienceService services.ExperienceServiceInterface
}

func NewUserController(
	accountService services.AccountServiceInterface,
	followService services.FollowServiceInterface,
	experienceService services.ExperienceServiceInterface,
) *UserController {
	return &UserController{
		accountService:    accountService,
		followService:     followService,
		experienceService: experienceService,
	}
}

// SearchUsers godoc
// @Summary Search users
// @Description Case-insensitive match on name, username or email
// @Tags Users
// @Produce json
// @Param q query string true "Search text"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {array} response_models.UserResponse
// @Security BearerAuth
// @Router /users/search [get]
func (u *UserController) SearchUsers(c *gin.Context) {
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	users, err := u.accountService.SearchUsers(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Users fetched successfully")
}

// GetUser godoc
// @Summary Get a user profile
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response_models.ProfileResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (u *UserController) GetUser(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	profile, err := u.accountService.GetProfile(c.Request.Context(), viewerID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "User fetched successfully")
}

// GetUserByUsername godoc
// @Summary Get a user profile by username
// @Tags Users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} response_models.ProfileResponse
// @Security BearerAuth
// @Router /users/by-username/{username} [get]
func (u *UserController) GetUserByUsername(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := u.accountService.GetProfileByUsername(c.Request.Context(), viewerID, c.Param("username"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, profile, "User fetched successfully")
}

// Follow godoc
// @Summary Follow a user
// @Description Idempotent; following twice keeps one relation
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id}/follow [post]
func (u *UserController) Follow(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}
	followingID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	if err := u.followService.Follow(c.Request.Context(), followerID, followingID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Followed successfully")
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /users/{id}/follow [delete]
func (u *UserController) Unfollow(c *gin.Context) {
	followerID, ok := currentUserID(c)
	if !ok {
		return
	}
	followingID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	if err := u.followService.Unfollow(c.Request.Context(), followerID, followingID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Unfollowed successfully")
}

// ListFollowers godoc
// @Summary List a user's followers
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} response_models.UserResponse
// @Security BearerAuth
// @Router /users/{id}/followers [get]
func (u *UserController) ListFollowers(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	users, err := u.followService.ListFollowers(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Followers fetched successfully")
}

// ListFollowing godoc
// @Summary List who a user follows
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} response_models.UserResponse
// @Security BearerAuth
// @Router /users/{id}/following [get]
func (u *UserController) ListFollowing(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	users, err := u.followService.ListFollowing(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Following fetched successfully")
}

// ListUserExperiences godoc
// @Summary List a user's experiences
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} response_models.ExperienceResponse
// @Security BearerAuth
// @Router /users/{id}/experiences [get]
func (u *UserController) ListUserExperiences(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	experiences, err := u.experienceService.ListUserExperiences(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, experiences, "Experiences fetched successfully")
}
