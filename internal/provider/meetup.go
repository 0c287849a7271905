// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/eventcheck/internal/httputil"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// meetupAPIBase is the Meetup GraphQL endpoint. Declared as a var so tests
// can substitute an httptest server.
var meetupAPIBase = "https://api.meetup.com/gql"

const meetupSearchQuery = `query($filter: SearchConnectionFilter!, $first: Int) {
  keywordSearch(filter: $filter, input: {first: $first}) {
    edges {
      node {
        result {
          ... on Event {
            id title description dateTime endTime eventUrl imageUrl
            venue { name address city }
            group { name }
            feeSettings { amount currency }
          }
        }
      }
    }
  }
}`

// Meetup queries the Meetup GraphQL keyword search for community events.
type Meetup struct {
	Options
	Token string
}

// Name returns the provider tag.
func (p *Meetup) Name() types.Origin { return types.OriginMeetup }

// Fetch runs a keyword search combining q.Keyword and q.Location.
func (p *Meetup) Fetch(ctx context.Context, q Query) ([]types.RealEvent, error) {
	filter := map[string]any{
		"query":  joinNonEmpty(" ", q.Keyword, q.Location),
		"radius": q.radius(),
		"source": "EVENTS",
	}
	if !q.Start.IsZero() {
		filter["startDateRange"] = q.Start.UTC().Format(time.RFC3339)
	}
	if !q.End.IsZero() {
		filter["endDateRange"] = q.End.UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(meetupRequest{
		Query:     meetupSearchQuery,
		Variables: map[string]any{"filter": filter, "first": p.pageSize()},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding Meetup query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, meetupAPIBase, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Token)
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, req, p.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Meetup API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Meetup API returned HTTP %d", resp.StatusCode)
	}

	var mr meetupResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("parsing Meetup response: %w", err)
	}
	if len(mr.Errors) > 0 {
		msgs := make([]string, len(mr.Errors))
		for i, e := range mr.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("Meetup GraphQL errors: %s", strings.Join(msgs, "; "))
	}

	events := make([]types.RealEvent, 0, len(mr.Data.KeywordSearch.Edges))
	for _, edge := range mr.Data.KeywordSearch.Edges {
		ev := edge.Node.Result
		if ev.ID == "" {
			continue
		}
		e := types.RealEvent{
			ID:          types.OriginMeetup.IDPrefix() + ev.ID,
			Origin:      types.OriginMeetup,
			Name:        ev.Title,
			Description: ev.Description,
			URL:         ev.EventURL,
			ImageURL:    ev.ImageURL,
			Organizer:   ev.Group.Name,
		}
		if ev.Venue != nil {
			e.Venue = ev.Venue.Name
			e.Address = ev.Venue.Address
			e.Location = joinNonEmpty(", ", ev.Venue.Name, ev.Venue.City)
		}
		if t, err := parseTimeFlexible(ev.DateTime); err == nil {
			e.Start = t
		}
		if t, err := parseTimeFlexible(ev.EndTime); err == nil {
			e.End = t
		}
		if ev.FeeSettings != nil {
			e.Price = formatPrice(ev.FeeSettings.Amount, ev.FeeSettings.Currency)
		}
		events = append(events, e)
	}
	return events, nil
}

type meetupRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Meetup GraphQL JSON structures.
type meetupResponse struct {
	Data struct {
		KeywordSearch struct {
			Edges []struct {
				Node struct {
					Result meetupEvent `json:"result"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"keywordSearch"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type meetupEvent struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DateTime    string `json:"dateTime"`
	EndTime     string `json:"endTime"`
	EventURL    string `json:"eventUrl"`
	ImageURL    string `json:"imageUrl"`
	Venue       *struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"venue"`
	Group struct {
		Name string `json:"name"`
	} `json:"group"`
	FeeSettings *struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"feeSettings"`
}
