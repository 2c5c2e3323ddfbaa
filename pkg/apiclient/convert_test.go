package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectToParams(t *testing.T) {
	teleports := false
	type params struct {
		ModeIDs      []int  `query:"mode_ids"`
		HasTeleports *bool  `query:"has_teleports"`
		Tickrates    []int  `query:"tickrates"`
		Limit        uint32 `query:"limit"`
		Name         string `query:"name"`
		Internal     string `query:"-"`
		Untagged     string
	}

	query := ObjectToParams(&params{
		ModeIDs:      []int{200, 201},
		HasTeleports: &teleports,
		Tickrates:    []int{128},
		Limit:        99999,
		Internal:     "skip",
		Untagged:     "skip",
	})

	assert.Equal(t, []string{"200", "201"}, query["mode_ids"])
	assert.Equal(t, "false", query.Get("has_teleports"))
	assert.Equal(t, "128", query.Get("tickrates"))
	assert.Equal(t, "99999", query.Get("limit"))
	assert.False(t, query.Has("name"))
	assert.Len(t, query, 4)
}

func TestObjectToParamsNilAndNonStruct(t *testing.T) {
	assert.Empty(t, ObjectToParams(nil))
	assert.Empty(t, ObjectToParams("limit=10"))

	type params struct {
		Limit *int `query:"limit"`
	}
	var p *params
	assert.Empty(t, ObjectToParams(p))
	assert.Empty(t, ObjectToParams(params{}))
}
