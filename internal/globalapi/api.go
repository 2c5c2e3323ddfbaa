// Package globalapi wraps the parts of the KZTimer Global API used for
// seeding.
package globalapi

import (
	"context"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/pkg/apiclient"
)

const Name = "global_api"

type Client struct {
	api *apiclient.Client
}

func New(cfg config.GlobalAPIConfig, httpCfg config.HTTPConfig) *Client {
	return &Client{
		api: apiclient.New(Name, cfg.BaseURL, httpCfg),
	}
}

// Maps fetches up to limit maps.
func (c *Client) Maps(ctx context.Context, limit int) ([]Map, error) {
	var maps []Map
	err := c.api.GetJSON(ctx, "/maps", mapParams{Limit: limit}, &maps)
	return maps, err
}

func (c *Client) RecordFilters(
	ctx context.Context,
	params RecordFilterParams,
) ([]RecordFilter, error) {
	var filters []RecordFilter
	err := c.api.GetJSON(ctx, "/record_filters", params, &filters)
	return filters, err
}

func (c *Client) Close() error {
	return c.api.Close()
}
