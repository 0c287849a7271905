// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eventcheck/pkg/types"
)

func TestSeatGeekFetch(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"events": [
		  {"id": 6112345, "title": "Rock Night", "url": "https://seatgeek.com/e/6112345",
		   "datetime_utc": "2025-06-15T20:00:00",
		   "venue": {"name": "Bowery Ballroom", "address": "6 Delancey St", "display_location": "New York, NY"},
		   "stats": {"lowest_price": 32},
		   "performers": [{"image": ""}, {"image": "https://img.example/rock.jpg"}],
		   "taxonomies": [{"name": "concert"}]},
		  {"id": 7, "title": "No Price", "datetime_utc": "garbage", "venue": {}, "stats": {"lowest_price": null}}
		]}`)
	}))
	defer ts.Close()
	withBase(t, &seatGeekAPIBase, ts.URL)

	p := &SeatGeek{Options: testOpts(ts.Client()), ClientID: "sg-client"}
	events, err := p.Fetch(context.Background(), Query{
		Location: "New York",
		Keyword:  "rock",
		Start:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Radius:   25,
	})
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "sg-client", q.Get("client_id"))
	assert.Equal(t, "New York", q.Get("venue.city"))
	assert.Equal(t, "rock", q.Get("q"))
	assert.Equal(t, "25mi", q.Get("range"))
	assert.Equal(t, "2025-06-15T00:00:00", q.Get("datetime_utc.gte"))
	assert.False(t, q.Has("datetime_utc.lte"))

	require.Len(t, events, 2)
	e := events[0]
	assert.Equal(t, "sg-6112345", e.ID)
	assert.Equal(t, types.OriginSeatGeek, e.Origin)
	assert.Equal(t, "Rock Night", e.Name)
	assert.True(t, time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC).Equal(e.Start))
	assert.Equal(t, "Bowery Ballroom", e.Venue)
	assert.Equal(t, "Bowery Ballroom, New York, NY", e.Location)
	assert.Equal(t, "$32.00", e.Price)
	assert.Equal(t, "https://img.example/rock.jpg", e.ImageURL)
	assert.Equal(t, []string{"concert"}, e.Categories)

	// Unparseable time and null price degrade to empty fields.
	assert.True(t, events[1].Start.IsZero())
	assert.Empty(t, events[1].Price)
}

func TestSeatGeekHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	withBase(t, &seatGeekAPIBase, ts.URL)

	p := &SeatGeek{Options: testOpts(ts.Client()), ClientID: "x"}
	_, err := p.Fetch(context.Background(), Query{Location: "Austin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
