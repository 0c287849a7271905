// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eventcheck/pkg/types"
)

func TestGooglePlacesFetch(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"status": "OK", "results": [
		  {"place_id": "ChIJ1", "name": "Blue Note", "formatted_address": "131 W 3rd St, New York, NY", "types": ["night_club", "bar"]}
		]}`)
	}))
	defer ts.Close()
	withBase(t, &placesAPIBase, ts.URL)

	p := &GooglePlaces{Options: testOpts(ts.Client()), APIKey: "gk"}
	events, err := p.Fetch(context.Background(), Query{Location: "New York", Keyword: "jazz"})
	require.NoError(t, err)

	q := captured.URL.Query()
	assert.Equal(t, "jazz in New York", q.Get("query"))
	assert.Equal(t, "gk", q.Get("key"))
	// 50 miles exceeds the API's 50 km ceiling.
	assert.Equal(t, "50000", q.Get("radius"))

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "gp-ChIJ1", e.ID)
	assert.Equal(t, types.OriginGooglePlaces, e.Origin)
	assert.Equal(t, "Blue Note", e.Venue)
	assert.True(t, e.Start.IsZero(), "places carry no start time")
	assert.Equal(t, []string{"night_club", "bar"}, e.Categories)
	assert.Contains(t, e.URL, "place_id:ChIJ1")
}

func TestGooglePlacesRadiusAndStatus(t *testing.T) {
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "invalid key"}`)
	}))
	defer ts.Close()
	withBase(t, &placesAPIBase, ts.URL)

	p := &GooglePlaces{Options: testOpts(ts.Client()), APIKey: "bad"}
	_, err := p.Fetch(context.Background(), Query{Location: "Austin", Radius: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Equal(t, "Austin", captured.URL.Query().Get("query"))
	assert.Equal(t, "16093", captured.URL.Query().Get("radius"))
}

func TestGooglePlacesZeroResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer ts.Close()
	withBase(t, &placesAPIBase, ts.URL)

	p := &GooglePlaces{Options: testOpts(ts.Client()), APIKey: "k"}
	events, err := p.Fetch(context.Background(), Query{Location: "Nowhere"})
	require.NoError(t, err)
	assert.Empty(t, events)
}
