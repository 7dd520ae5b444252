package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type GeocodeController struct {
	geocodeService services.GeocodeService
}

func NewGeocodeController(geocodeService services.GeocodeService) *GeocodeController {
	return &GeocodeController{
		geocodeService: geocodeService,
	}
}

// Search godoc
// @Summary Forward geocoding
// @Tags Geocoding
// @Produce json
// @Param q query string true "Place name"
// @Success 200 {array} response_models.Place
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /geocode/search [get]
func (g *GeocodeController) Search(c *gin.Context) {
	places, err := g.geocodeService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Places fetched successfully")
}

// Reverse godoc
// @Summary Reverse geocoding
// @Tags Geocoding
// @Produce json
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Success 200 {array} response_models.Place
// @Security BearerAuth
// @Router /geocode/reverse [get]
func (g *GeocodeController) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		utils.RespondError(c, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}

	places, err := g.geocodeService.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, places, "Places fetched successfully")
}
