// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/eventcheck/internal/httputil"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// placesAPIBase is the Google Places text search endpoint. Declared as a var
// so tests can substitute an httptest server.
var placesAPIBase = "https://maps.googleapis.com/maps/api/place/textsearch/json"

const metersPerMile = 1609.344

// placesMaxRadius is the largest radius the text search honours.
const placesMaxRadius = 50000

// GooglePlaces queries the Google Places directory. It returns venues, not
// scheduled events, so results carry no start time and score only on name,
// venue, and price.
type GooglePlaces struct {
	Options
	APIKey string
}

// Name returns the provider tag.
func (p *GooglePlaces) Name() types.Origin { return types.OriginGooglePlaces }

// Fetch runs a text search for "<keyword> in <location>".
func (p *GooglePlaces) Fetch(ctx context.Context, q Query) ([]types.RealEvent, error) {
	text := q.Location
	if q.Keyword != "" {
		text = q.Keyword + " in " + q.Location
	}
	radius := int(float64(q.radius()) * metersPerMile)
	if radius > placesMaxRadius {
		radius = placesMaxRadius
	}
	params := url.Values{
		"query":  {text},
		"radius": {strconv.Itoa(radius)},
		"key":    {p.APIKey},
	}

	req, err := newRequest(ctx, p.Options, placesAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, p.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Google Places API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google Places API returned HTTP %d", resp.StatusCode)
	}

	var pr placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing Google Places response: %w", err)
	}
	switch pr.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return nil, fmt.Errorf("Google Places status %s: %s", pr.Status, pr.ErrorMessage)
	}

	limit := p.pageSize()
	events := make([]types.RealEvent, 0, min(len(pr.Results), limit))
	for _, place := range pr.Results {
		if len(events) >= limit {
			break
		}
		events = append(events, types.RealEvent{
			ID:         types.OriginGooglePlaces.IDPrefix() + place.PlaceID,
			Origin:     types.OriginGooglePlaces,
			Name:       place.Name,
			Venue:      place.Name,
			Address:    place.FormattedAddress,
			Location:   place.FormattedAddress,
			URL:        "https://www.google.com/maps/place/?q=place_id:" + place.PlaceID,
			Categories: place.Types,
		})
	}
	return events, nil
}

// Google Places API JSON structures.
type placesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Types            []string `json:"types"`
}
