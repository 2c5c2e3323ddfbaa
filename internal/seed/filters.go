package seed

import (
	"math"

	"github.com/kiltia/kzseed/internal/globalapi"
	"github.com/kiltia/kzseed/pkg/util"

	"go.uber.org/zap"
)

// FilterRequest identifies one of the record filter sets to download.
type FilterRequest struct {
	Mode      Mode
	Teleports bool
}

// FilterRequests lists the sets in the order their rows are emitted:
// every mode, teleports first.
func FilterRequests() []FilterRequest {
	requests := make([]FilterRequest, 0, 2*len(Modes))
	for _, mode := range Modes {
		requests = append(requests,
			FilterRequest{Mode: mode, Teleports: true},
			FilterRequest{Mode: mode, Teleports: false},
		)
	}
	return requests
}

func (r FilterRequest) Params(tickrate, limit int) globalapi.RecordFilterParams {
	teleports := r.Teleports
	return globalapi.RecordFilterParams{
		ModeIDs:      []int{int(r.Mode)},
		HasTeleports: &teleports,
		Tickrates:    []int{tickrate},
		Limit:        limit,
	}
}

type FilterSet struct {
	FilterRequest
	Filters []globalapi.RecordFilter
}

// BuildFilters turns the downloaded sets into filter rows, keeping the set
// order. Each row takes the mode of its set. Records whose course id would
// be negative are dropped, and so is a (course, mode) pair seen before,
// which happens whenever a course allows both teleport and pro runs.
func BuildFilters(sets []FilterSet) []FilterRow {
	type key struct {
		courseID uint32
		mode     Mode
	}
	seen := make(map[key]struct{})

	var rows []FilterRow
	for _, set := range sets {
		valid := util.Filter(set.Filters, func(f globalapi.RecordFilter) bool {
			courseID := CourseID(f.MapID, f.Stage)
			return courseID >= 0 && int64(courseID) <= math.MaxUint32
		})
		if dropped := len(set.Filters) - len(valid); dropped > 0 {
			zap.S().Debugw(
				"dropped record filters with an invalid course id",
				"mode", set.Mode,
				"teleports", set.Teleports,
				"count", dropped,
			)
		}
		for _, f := range valid {
			k := key{courseID: uint32(CourseID(f.MapID, f.Stage)), mode: set.Mode}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			rows = append(rows, FilterRow{CourseID: k.courseID, ModeID: uint8(k.mode)})
		}
	}
	return rows
}
