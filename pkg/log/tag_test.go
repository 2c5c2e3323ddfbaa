package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogTagString(t *testing.T) {
	assert.Equal(t, "fetching", LogTagFetching.String())
	assert.Equal(t, "writing", LogTagWriting.String())
	assert.Equal(t, "log_tag_unknown", LogTag(100).String())
}
