package globalapi

import (
	"bytes"
	"encoding/json"
)

// SteamID64 is sent either as a JSON string or a JSON number, and may be
// null.
type SteamID64 string

func (id *SteamID64) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = SteamID64(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = SteamID64(n.String())
	return nil
}

// A map as returned by the /maps endpoint.
type Map struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Filesize    int64     `json:"filesize"`
	Validated   bool      `json:"validated"`
	Difficulty  int       `json:"difficulty"`
	CreatedOn   string    `json:"created_on"`
	UpdatedOn   string    `json:"updated_on"`
	ApprovedBy  SteamID64 `json:"approved_by_steamid64"`
	WorkshopURL string    `json:"workshop_url"`
}

// A record filter as returned by the /record_filters endpoint. Each one
// states that records may be submitted for a course in a mode.
type RecordFilter struct {
	ID           int    `json:"id"`
	MapID        int    `json:"map_id"`
	Stage        int    `json:"stage"`
	ModeID       int    `json:"mode_id"`
	Tickrate     int    `json:"tickrate"`
	HasTeleports bool   `json:"has_teleports"`
	CreatedOn    string `json:"created_on"`
	UpdatedOn    string `json:"updated_on"`
}

// Request query parameters for the /record_filters endpoint.
type RecordFilterParams struct {
	ModeIDs      []int `query:"mode_ids"`
	HasTeleports *bool `query:"has_teleports"`
	Tickrates    []int `query:"tickrates"`
	Limit        int   `query:"limit"`
}

type mapParams struct {
	Limit int `query:"limit"`
}
