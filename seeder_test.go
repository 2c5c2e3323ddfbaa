package kzseed

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiltia/kzseed/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeeder(t *testing.T, handler http.Handler) (*Seeder, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.GlobalAPI.BaseURL = srv.URL + "/api/v2"
	cfg.KZGO.BaseURL = srv.URL + "/kzgo"
	cfg.HTTP.NumRetries = 0

	var buf bytes.Buffer
	seeder := NewWithBackends(cfg, []Backend{NewScriptWriter(&buf)})
	t.Cleanup(func() { _ = seeder.Close() })
	return seeder, &buf
}

func TestSeederFilters(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/record_filters", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "128", q.Get("tickrates"))
		assert.Equal(t, "99999", q.Get("limit"))

		mode := q.Get("mode_ids")
		switch q.Get("has_teleports") {
		case "true":
			fmt.Fprintf(w, `[{"id": 1, "map_id": 992, "stage": 0, "mode_id": %s, "tickrate": 128, "has_teleports": true}]`, mode)
		case "false":
			fmt.Fprintf(w, `[
				{"id": 2, "map_id": 992, "stage": 0, "mode_id": %[1]s, "tickrate": 128, "has_teleports": false},
				{"id": 3, "map_id": 992, "stage": 1, "mode_id": %[1]s, "tickrate": 128, "has_teleports": false}
			]`, mode)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	seeder, buf := newTestSeeder(t, mux)

	require.NoError(t, seeder.Filters(context.Background()))

	assert.Equal(t, `INSERT INTO filters
  (course_id, mode_id)
VALUES
  (992000, 200)
 ,(992001, 200)
 ,(992000, 201)
 ,(992001, 201)
 ,(992000, 202)
 ,(992001, 202);
`, buf.String())
}

func TestSeederFiltersUpstreamError(t *testing.T) {
	seeder, buf := newTestSeeder(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := seeder.Filters(context.Background())
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestSeederMaps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/maps", func(w http.ResponseWriter, r *http.Request) {
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
				"filesize": 10,
				"validated": false,
				"difficulty": 1,
				"created_on": "0001-01-01T00:00:00",
				"updated_on": "2018-01-09T10:45:49",
				"approved_by_steamid64": null,
				"workshop_url": null
			}
		]`))
	})
	mux.HandleFunc("/kzgo/maps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"name": "kz_lionharder", "id": 5, "tier": 6, "bonuses": 2, "workshopId": "", "sp": true, "vp": true, "skz": true, "vnl": false},
			{"name": "kz_missing", "id": 6, "tier": 2, "bonuses": 0, "workshopId": "1", "sp": true, "vp": false, "skz": true, "vnl": true}
		]`))
	})
	seeder, buf := newTestSeeder(t, mux)

	require.NoError(t, seeder.Maps(context.Background()))

	assert.Equal(t, `INSERT INTO maps
  (id, name, global, filesize, approved_by, workshop_id, created_on, updated_on)
VALUES
  (1, "kz_old", false, 10, 0, null, "2018-01-09 10:45:49", "2018-01-09 10:45:49")
 ,(992, "kz_lionharder", true, 17036624, 182939603, 2420807980, "2021-09-16 13:47:33", "2021-09-16 13:47:33");

INSERT INTO courses
  (id, map_id, stage, tier)
VALUES
  (992000, 992, 0, 6)
 ,(992001, 992, 1, 6)
 ,(992002, 992, 2, 6);
`, buf.String())
}

func TestSeederMapsInitTables(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/maps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/kzgo/maps", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	seeder, buf := newTestSeeder(t, mux)
	seeder.cfg.Writer.InitTables = true

	require.NoError(t, seeder.Maps(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS maps (")
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS courses (")
	assert.NotContains(t, out, "INSERT INTO")
}
