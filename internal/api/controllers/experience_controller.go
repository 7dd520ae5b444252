package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate/internal/models/request_models"
	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type ExperienceController struct {
	experienceService services.ExperienceServiceInterface
}

func NewExperienceController(experienceService services.ExperienceServiceInterface) *ExperienceController {
	return &ExperienceController{
		experienceService: experienceService,
	}
}

// ListExperiences godoc
// @Summary List experiences
// @Tags Experiences
// @Produce json
// @Param category query string false "Only experiences tagged with this category"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {array} response_models.ExperienceResponse
// @Security BearerAuth
// @Router /experiences [get]
func (e *ExperienceController) ListExperiences(c *gin.Context) {
	page, pageSize, ok := parsePagination(c, 20)
	if !ok {
		return
	}

	experiences, err := e.experienceService.ListExperiences(c.Request.Context(), c.Query("category"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, experiences, "Experiences fetched successfully")
}

// CreateExperience godoc
// @Summary Share an experience
// @Description Uploads the image, then stores the experience
// @Tags Experiences
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param location formData string true "Location"
// @Param categories formData []string false "Categories"
// @Param image formData file true "JPEG, PNG, WebP or GIF up to 5 MiB"
// @Success 201 {object} response_models.ExperienceResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Security BearerAuth
// @Router /experiences [post]
func (e *ExperienceController) CreateExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.CreateExperienceRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Image file is required")
		return
	}

	experience, err := e.experienceService.CreateExperience(c.Request.Context(), userID, req, header)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, experience, "Experience created successfully")
}

// DeleteExperience godoc
// @Summary Delete an experience
// @Description Owner only
// @Tags Experiences
// @Produce json
// @Param experienceId path string true "Experience ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /experiences/{experienceId} [delete]
func (e *ExperienceController) DeleteExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	experienceID, ok := parseUUIDParam(c, "experienceId", "experience")
	if !ok {
		return
	}

	if err := e.experienceService.DeleteExperience(c.Request.Context(), userID, experienceID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Experience deleted successfully")
}
