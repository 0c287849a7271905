// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/eventcheck/internal/httputil"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// ticketmasterAPIBase is the Discovery API event search endpoint. Declared
// as a var so tests can substitute an httptest server.
var ticketmasterAPIBase = "https://app.ticketmaster.com/discovery/v2/events.json"

// ticketmasterTimeFormat is the only datetime layout the Discovery API
// accepts for startDateTime/endDateTime.
const ticketmasterTimeFormat = "2006-01-02T15:04:05Z"

// Ticketmaster queries the Ticketmaster Discovery API.
type Ticketmaster struct {
	Options
	APIKey string
}

// Name returns the provider tag.
func (p *Ticketmaster) Name() types.Origin { return types.OriginTicketmaster }

// Fetch searches Discovery for events around q.Location.
func (p *Ticketmaster) Fetch(ctx context.Context, q Query) ([]types.RealEvent, error) {
	params := url.Values{
		"apikey": {p.APIKey},
		"city":   {q.Location},
		"radius": {strconv.Itoa(q.radius())},
		"unit":   {"miles"},
		"size":   {strconv.Itoa(min(p.pageSize(), 200))},
		"sort":   {"date,asc"},
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}
	if !q.Start.IsZero() {
		params.Set("startDateTime", q.Start.UTC().Format(ticketmasterTimeFormat))
	}
	if !q.End.IsZero() {
		params.Set("endDateTime", q.End.UTC().Format(ticketmasterTimeFormat))
	}

	req, err := newRequest(ctx, p.Options, ticketmasterAPIBase+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, p.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Ticketmaster API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Ticketmaster API returned HTTP %d", resp.StatusCode)
	}

	var tr ticketmasterResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("parsing Ticketmaster response: %w", err)
	}

	events := make([]types.RealEvent, 0, len(tr.Embedded.Events))
	for _, ev := range tr.Embedded.Events {
		e := types.RealEvent{
			ID:          types.OriginTicketmaster.IDPrefix() + ev.ID,
			Origin:      types.OriginTicketmaster,
			Name:        ev.Name,
			Description: ev.Info,
			URL:         ev.URL,
			Organizer:   ev.Promoter.Name,
		}
		e.Start = ev.Dates.Start.instant()

		if len(ev.Embedded.Venues) > 0 {
			v := ev.Embedded.Venues[0]
			e.Venue = v.Name
			e.Address = v.Address.Line1
			e.Location = joinNonEmpty(", ", v.Name, v.City.Name)
		}
		if len(ev.PriceRanges) > 0 {
			e.Price = formatPrice(ev.PriceRanges[0].Min, ev.PriceRanges[0].Currency)
		}
		if len(ev.Images) > 0 {
			e.ImageURL = ev.Images[0].URL
		}
		for _, c := range ev.Classifications {
			for _, name := range []string{c.Segment.Name, c.Genre.Name} {
				if name != "" && name != "Undefined" {
					e.Categories = append(e.Categories, name)
				}
			}
		}
		events = append(events, e)
	}
	return events, nil
}

// Ticketmaster Discovery API JSON structures.
type ticketmasterResponse struct {
	Embedded struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
}

type ticketmasterEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Info  string `json:"info"`
	Dates struct {
		Start ticketmasterStart `json:"start"`
	} `json:"dates"`
	PriceRanges []struct {
		Currency string  `json:"currency"`
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
	} `json:"priceRanges"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	Promoter struct {
		Name string `json:"name"`
	} `json:"promoter"`
	Embedded struct {
		Venues []ticketmasterVenue `json:"venues"`
	} `json:"_embedded"`
}

type ticketmasterStart struct {
	DateTime  string `json:"dateTime"`
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
}

// instant prefers the UTC dateTime and falls back to the local date/time,
// which carries no zone and is read as UTC.
func (s ticketmasterStart) instant() (t time.Time) {
	if s.DateTime != "" {
		if t, err := parseTimeFlexible(s.DateTime); err == nil {
			return t
		}
	}
	if s.LocalDate == "" {
		return t
	}
	local := s.LocalDate
	if s.LocalTime != "" {
		local += "T" + s.LocalTime
	}
	t, _ = parseTimeFlexible(local)
	return t
}

type ticketmasterVenue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}
