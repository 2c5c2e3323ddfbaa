package util

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
	assert.Empty(t, Map(nil, strconv.Itoa))
}

func TestFilter(t *testing.T) {
	even := func(v int) bool { return v%2 == 0 }
	assert.Equal(t, []int{2, 4}, Filter([]int{1, 2, 3, 4, 5}, even))
	assert.Nil(t, Filter([]int{1, 3}, even))
}

func TestChunk(t *testing.T) {
	values := []int{1, 2, 3, 4, 5}

	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk(values, 2))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Chunk(values, 0))
	assert.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Chunk(values, 10))
	assert.Nil(t, Chunk([]int{}, 3))
}
