// Package kzgo wraps the KZ:GO map metadata API.
package kzgo

import (
	"context"

	"github.com/kiltia/kzseed/config"
	"github.com/kiltia/kzseed/pkg/apiclient"
)

const Name = "kzgo"

type Client struct {
	api *apiclient.Client
}

func New(cfg config.KZGOConfig, httpCfg config.HTTPConfig) *Client {
	return &Client{
		api: apiclient.New(Name, cfg.BaseURL, httpCfg),
	}
}

func (c *Client) Maps(ctx context.Context) ([]Map, error) {
	var maps []Map
	err := c.api.GetJSON(ctx, "/maps", nil, &maps)
	return maps, err
}

func (c *Client) Close() error {
	return c.api.Close()
}
