package kzgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/pkg/apiclient"

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
	client := New(config.KZGOConfig{BaseURL: srv.URL + "/api"}, httpCfg)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestMaps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/maps", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[
			{
				"_id": "61ae0b5c7c2cbd8f2ee8a5a4",
				"name": "kz_lionharder",
				"id": 992,
				"tier": 7,
				"workshopId": "2420807980",
				"bonuses": 2,
				"sp": false,
				"vp": true,
				"skz": true,
				"vnl": false
			}
		]`))
	})

	maps, err := client.Maps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Map{{
		ID:         992,
		Name:       "kz_lionharder",
		Tier:       7,
		Bonuses:    2,
		WorkshopID: "2420807980",
		VP:         true,
		SKZ:        true,
	}}, maps)
}

func TestMapsUpstreamDown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Maps(context.Background())
	require.ErrorIs(t, err, apiclient.ErrServerError)
}
