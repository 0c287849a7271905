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

// seatGeekAPIBase is the SeatGeek events endpoint. Declared as a var so
// tests can substitute an httptest server.
var seatGeekAPIBase = "https://api.seatgeek.com/2/events"

// SeatGeek queries the SeatGeek platform API.
type SeatGeek struct {
	Options
	ClientID string
}

// Name returns the provider tag.
func (p *SeatGeek) Name() types.Origin { return types.OriginSeatGeek }

// Fetch searches SeatGeek for events in q.Location.
func (p *SeatGeek) Fetch(ctx context.Context, q Query) ([]types.RealEvent, error) {
	params := url.Values{
		"client_id":  {p.ClientID},
		"venue.city": {q.Location},
		"range":      {fmt.Sprintf("%dmi", q.radius())},
		"per_page":   {strconv.Itoa(p.pageSize())},
	}
	if q.Keyword != "" {
		params.Set("q", q.Keyword)
	}
	// SeatGeek expects naive UTC datetimes.
	if !q.Start.IsZero() {
		params.Set("datetime_utc.gte", q.Start.UTC().Format("2006-01-02T15:04:05"))
	}
	if !q.End.IsZero() {
		params.Set("datetime_utc.lte", q.End.UTC().Format("2006-01-02T15:04:05"))
	}

	req, err := newRequest(ctx, p.Options, seatGeekAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, p.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("SeatGeek API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SeatGeek API returned HTTP %d", resp.StatusCode)
	}

	var sr seatGeekResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing SeatGeek response: %w", err)
	}

	events := make([]types.RealEvent, 0, len(sr.Events))
	for _, ev := range sr.Events {
		e := types.RealEvent{
			ID:          types.OriginSeatGeek.IDPrefix() + strconv.FormatInt(ev.ID, 10),
			Origin:      types.OriginSeatGeek,
			Name:        ev.Title,
			Description: ev.Description,
			URL:         ev.URL,
			Venue:       ev.Venue.Name,
			Address:     ev.Venue.Address,
			Location:    joinNonEmpty(", ", ev.Venue.Name, ev.Venue.DisplayLocation),
		}
		if t, err := parseTimeFlexible(ev.DatetimeUTC); err == nil {
			e.Start = t
		}
		if ev.Stats.LowestPrice != nil {
			e.Price = formatPrice(*ev.Stats.LowestPrice, "USD")
		}
		for _, perf := range ev.Performers {
			if perf.Image != "" {
				e.ImageURL = perf.Image
				break
			}
		}
		for _, tax := range ev.Taxonomies {
			e.Categories = append(e.Categories, tax.Name)
		}
		events = append(events, e)
	}
	return events, nil
}

// SeatGeek API JSON structures.
type seatGeekResponse struct {
	Events []seatGeekEvent `json:"events"`
}

type seatGeekEvent struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	DatetimeUTC string `json:"datetime_utc"`
	Venue       struct {
		Name            string `json:"name"`
		Address         string `json:"address"`
		DisplayLocation string `json:"display_location"`
	} `json:"venue"`
	Stats struct {
		LowestPrice *float64 `json:"lowest_price"`
	} `json:"stats"`
	Performers []struct {
		Image string `json:"image"`
	} `json:"performers"`
	Taxonomies []struct {
		Name string `json:"name"`
	} `json:"taxonomies"`
}
