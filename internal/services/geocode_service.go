package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tripmate/internal/config"
	resp "tripmate/internal/models/response_models"
	mem "tripmate/pkg/memcache"
	"tripmate/pkg/utils"
)

const geocodeResultLimit = 5

type GeocodeService interface {
	Search(ctx context.Context, query string) ([]resp.Place, error)
	Reverse(ctx context.Context, lat, lng float64) ([]resp.Place, error)
}

// MapboxGeocoder calls the Mapbox Geocoding v5 API and caches answers by
// request for the configured TTL.
type MapboxGeocoder struct {
	HTTP        *http.Client
	BaseURL     string
	AccessToken string
	Cache       mem.Store[[]resp.Place]
	TTL         time.Duration
	logger      *zap.Logger
}

func NewMapboxGeocoder(cfg *config.Config, cache mem.Store[[]resp.Place], logger *zap.Logger) GeocodeService {
	return &MapboxGeocoder{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		BaseURL:     strings.TrimRight(cfg.MapboxBaseURL, "/"),
		AccessToken: cfg.MapboxToken,
		Cache:       cache,
		TTL:         cfg.GeocodeCacheTTL,
		logger:      logger,
	}
}

func (g *MapboxGeocoder) Search(ctx context.Context, query string) ([]resp.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, utils.ErrInvalidInput
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(geocodeResultLimit))
	return g.lookup(ctx, "search:"+strings.ToLower(query), query, params)
}

// Reverse sends no limit: Mapbox answers 422 to a reverse query that sets
// limit without exactly one type, and the default already returns one
// feature per place type.
func (g *MapboxGeocoder) Reverse(ctx context.Context, lat, lng float64) ([]resp.Place, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, utils.ErrInvalidInput
	}
	coords := fmt.Sprintf("%.6f,%.6f", lng, lat)
	return g.lookup(ctx, "reverse:"+coords, coords, url.Values{})
}

func (g *MapboxGeocoder) lookup(ctx context.Context, cacheKey, term string, q url.Values) ([]resp.Place, error) {
	if places, ok := g.Cache.Get(cacheKey); ok {
		return places, nil
	}

	if g.AccessToken == "" {
		g.logger.Error("mapbox access token is not configured")
		return nil, utils.ErrGeocodingError
	}

	u, err := url.Parse(g.BaseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(term) + ".json")
	if err != nil {
		return nil, utils.ErrGeocodingError
	}
	q.Set("access_token", g.AccessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, utils.ErrGeocodingError
	}
	res, err := g.HTTP.Do(req)
	if err != nil {
		g.logger.Warn("mapbox request failed", zap.Error(err))
		return nil, utils.ErrGeocodingError
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		g.logger.Warn("mapbox bad status", zap.String("status", res.Status))
		return nil, utils.ErrGeocodingError
	}

	var payload struct {
		Features []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			PlaceName string    `json:"place_name"`
			Center    []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		g.logger.Warn("mapbox decode failed", zap.Error(err))
		return nil, utils.ErrGeocodingError
	}

	places := make([]resp.Place, 0, len(payload.Features))
	for _, f := range payload.Features {
		// center is [lng, lat]
		if len(f.Center) != 2 {
			continue
		}
		places = append(places, resp.Place{
			ID:        f.ID,
			Name:      f.Text,
			PlaceName: f.PlaceName,
			Latitude:  f.Center[1],
			Longitude: f.Center[0],
		})
	}

	g.Cache.Set(cacheKey, places, g.TTL)
	return places, nil
}
