package vaultserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aura/internal/domain"
)

// PlacesProvider finds healthcare providers near a point.
type PlacesProvider interface {
	Nearby(ctx context.Context, kind domain.PlaceKind, q domain.PlacesQuery) ([]domain.Place, string, error)
}

// GooglePlaces queries the Google Places Nearby Search API.
type GooglePlaces struct {
	Key     string
	BaseURL string
	HTTP    *http.Client
}

const googleNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// maxPhotos bounds the photo references returned per place.
const maxPhotos = 3

func NewGooglePlaces(key string) *GooglePlaces {
	return &GooglePlaces{
		Key:     key,
		BaseURL: googleNearbyURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type googleResponse struct {
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message"`
	NextPageToken string `json:"next_page_token"`
	Results       []struct {
		PlaceID          string  `json:"place_id"`
		Name             string  `json:"name"`
		Vicinity         string  `json:"vicinity"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
		PriceLevel int      `json:"price_level"`
		Types      []string `json:"types"`
		Photos     []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

func (g *GooglePlaces) Nearby(ctx context.Context, kind domain.PlaceKind, q domain.PlacesQuery) ([]domain.Place, string, error) {
	params := url.Values{}
	params.Set("location", strconv.FormatFloat(q.Latitude, 'f', -1, 64)+","+strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(q.Radius))
	params.Set("type", string(kind))
	params.Set("key", g.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("places api: %s", resp.Status)
	}

	var body googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", err
	}
	switch body.Status {
	case "OK", "ZERO_RESULTS":
	default:
		if body.ErrorMessage != "" {
			return nil, "", fmt.Errorf("places api status %s: %s", body.Status, body.ErrorMessage)
		}
		return nil, "", errors.New("places api status " + body.Status)
	}

	out := make([]domain.Place, 0, len(body.Results))
	for _, r := range body.Results {
		p := domain.Place{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Address:          r.Vicinity,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			Latitude:         r.Geometry.Location.Lat,
			Longitude:        r.Geometry.Location.Lng,
			PriceLevel:       r.PriceLevel,
			Types:            r.Types,
		}
		if r.OpeningHours != nil {
			p.OpenNow = r.OpeningHours.OpenNow
		}
		for i, ph := range r.Photos {
			if i == maxPhotos {
				break
			}
			p.Photos = append(p.Photos, ph.PhotoReference)
		}
		out = append(out, p)
	}
	return out, body.NextPageToken, nil
}

var _ PlacesProvider = (*GooglePlaces)(nil)
