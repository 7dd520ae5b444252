package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate/internal/models/request_models"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type AdminController struct {
	accountService services.AccountServiceInterface
}

func NewAdminController(accountService services.AccountServiceInterface) *AdminController {
	return &AdminController{
		accountService: accountService,
	}
}

// ListUnverified godoc
// @Summary List unverified users
// @Tags Admin
// @Produce json
// @Success 200 {array} response_models.UserResponse
// @Security BearerAuth
// @Router /admin/users/unverified [get]
func (a *AdminController) ListUnverified(c *gin.Context) {
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	users, err := a.accountService.ListUnverified(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, users, "Unverified users fetched successfully")
}

// SetVerification godoc
// @Summary Verify or unverify a user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body request_models.VerifyUserRequest true "Verification decision"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/users/{id}/verification [put]
func (a *AdminController) SetVerification(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req request_models.VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.accountService.SetVerification(c.Request.Context(), userID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Verification updated successfully")
}
