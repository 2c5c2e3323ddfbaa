package globalapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiltia/kzseed/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpCfg := config.Default().HTTP
	httpCfg.NumRetries = 0
	httpCfg.Timeout = 5 * time.Second
	client := New(config.GlobalAPIConfig{BaseURL: srv.URL + "/api/v2"}, httpCfg)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMaps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/maps", r.URL.Path)
		assert.Equal(t, "9999", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[
			{
				"id": 992,
				"name": "kz_lionharder",
				"filesize": 17036624,
				"validated": true,
				"difficulty": 7,
				"created_on": "2021-09-16T13:47:33",
				"updated_on": "2021-09-16T13:47:33",
				"approved_by_steamid64": "76561198143205331",
				"workshop_url": "https://steamcommunity.com/sharedfiles/filedetails/?id=2420807980"
			},
			{
				"id": 1,
				"name": "kz_old",
				"filesize": 0,
				"validated": false,
				"difficulty": 1,
				"created_on": "0001-01-01T00:00:00",
				"updated_on": "2018-01-09T10:45:49",
				"approved_by_steamid64": null,
				"workshop_url": null
			}
		]`))
	})

	maps, err := client.Maps(context.Background(), 9999)
	require.NoError(t, err)
	require.Len(t, maps, 2)

	assert.Equal(t, Map{
		ID:          992,
		Name:        "kz_lionharder",
		Filesize:    17036624,
		Validated:   true,
		Difficulty:  7,
		CreatedOn:   "2021-09-16T13:47:33",
		UpdatedOn:   "2021-09-16T13:47:33",
		ApprovedBy:  "76561198143205331",
		WorkshopURL: "https://steamcommunity.com/sharedfiles/filedetails/?id=2420807980",
	}, maps[0])
	assert.Equal(t, SteamID64(""), maps[1].ApprovedBy)
	assert.Empty(t, maps[1].WorkshopURL)
}

func TestRecordFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/record_filters", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "201", query.Get("mode_ids"))
		assert.Equal(t, "true", query.Get("has_teleports"))
		assert.Equal(t, "128", query.Get("tickrates"))
		assert.Equal(t, "99999", query.Get("limit"))
		_, _ = w.Write([]byte(`[
			{"id": 10, "map_id": 992, "stage": 0, "mode_id": 201, "tickrate": 128, "has_teleports": true},
			{"id": 11, "map_id": 992, "stage": 2, "mode_id": 201, "tickrate": 128, "has_teleports": true}
		]`))
	})

	teleports := true
	filters, err := client.RecordFilters(context.Background(), RecordFilterParams{
		ModeIDs:      []int{201},
		HasTeleports: &teleports,
		Tickrates:    []int{128},
		Limit:        99999,
	})
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, 992, filters[1].MapID)
	assert.Equal(t, 2, filters[1].Stage)
}

func TestSteamID64Unmarshal(t *testing.T) {
	cases := map[string]SteamID64{
		`"76561198143205331"`: "76561198143205331",
		`76561198143205331`:   "76561198143205331",
		`null`:                "",
	}
	for input, want := range cases {
		var id SteamID64
		require.NoError(t, json.Unmarshal([]byte(input), &id), input)
		assert.Equal(t, want, id, input)
	}

	var id SteamID64
	assert.Error(t, json.Unmarshal([]byte(`{}`), &id))
}
