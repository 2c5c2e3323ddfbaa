package seed

import (
	"cmp"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/kiltia/kzseed/internal/globalapi"
	"github.com/kiltia/kzseed/internal/kzgo"
)

const (
	TimestampLayout = "2006-01-02T15:04:05"

	// The Global API reports this for maps added before it tracked dates.
	unknownCreatedOn = "0001-01-01T00:00:00"
	// Launch date of the Global API, used instead of unknownCreatedOn.
	fallbackCreatedOn = "2018-01-09T10:45:49"

	// SteamID64 of account 0 in the public universe.
	steamID64Base uint64 = 76561197960265728
)

type MapsResult struct {
	// Sorted by id
	Maps []MapRow
	// In KZ:GO order
	Courses []CourseRow
	// KZ:GO maps the Global API does not know about
	Unmatched []string
	// KZ:GO maps listed more than once; only the first one is used
	Duplicates []string
}

type mapEntry struct {
	row         MapRow
	workshopURL string
}

// BuildMaps joins the Global API maps with the KZ:GO metadata by map name.
// Every Global API map produces a map row, a later map with the same name
// replacing the earlier one. Every matched KZ:GO map contributes its
// workshop id and one course per stage, the main course being stage 0.
func BuildMaps(globalMaps []globalapi.Map, kzgoMaps []kzgo.Map) (MapsResult, error) {
	var result MapsResult

	byName := make(map[string]*mapEntry, len(globalMaps))
	for _, m := range globalMaps {
		row, err := mapRow(m)
		if err != nil {
			return result, fmt.Errorf("map %q: %w", m.Name, err)
		}
		byName[m.Name] = &mapEntry{row: row, workshopURL: m.WorkshopURL}
	}

	joined := make(map[string]struct{}, len(kzgoMaps))
	for _, meta := range kzgoMaps {
		entry, ok := byName[meta.Name]
		if !ok {
			result.Unmatched = append(result.Unmatched, meta.Name)
			continue
		}
		if _, ok := joined[meta.Name]; ok {
			result.Duplicates = append(result.Duplicates, meta.Name)
			continue
		}
		joined[meta.Name] = struct{}{}

		entry.row.WorkshopID = workshopID(meta.WorkshopID, entry.workshopURL)
		result.Courses = append(result.Courses, courses(entry.row.ID, meta)...)
	}

	result.Maps = make([]MapRow, 0, len(byName))
	for _, entry := range byName {
		result.Maps = append(result.Maps, entry.row)
	}
	slices.SortFunc(result.Maps, func(a, b MapRow) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return result, nil
}

func mapRow(m globalapi.Map) (MapRow, error) {
	if m.ID <= 0 || m.ID > math.MaxUint16 {
		return MapRow{}, fmt.Errorf("id %d out of range", m.ID)
	}

	createdOn := m.CreatedOn
	if createdOn == unknownCreatedOn {
		createdOn = fallbackCreatedOn
	}
	created, err := ParseTimestamp(createdOn)
	if err != nil {
		return MapRow{}, fmt.Errorf("parsing created_on: %w", err)
	}
	updated, err := ParseTimestamp(m.UpdatedOn)
	if err != nil {
		return MapRow{}, fmt.Errorf("parsing updated_on: %w", err)
	}

	return MapRow{
		ID:         uint16(m.ID),
		Name:       m.Name,
		Global:     m.Validated,
		Filesize:   uint32(min(max(m.Filesize, 0), math.MaxUint32)),
		ApprovedBy: AccountID(m.ApprovedBy),
		CreatedOn:  created,
		UpdatedOn:  updated,
	}, nil
}

func courses(mapID uint16, meta kzgo.Map) []CourseRow {
	tier := uint8(min(max(meta.Tier, 0), math.MaxUint8))
	bonuses := min(max(meta.Bonuses, 0), math.MaxUint8)

	rows := make([]CourseRow, 0, bonuses+1)
	for stage := 0; stage <= bonuses; stage++ {
		rows = append(rows, CourseRow{
			ID:    uint32(CourseID(int(mapID), stage)),
			MapID: mapID,
			Stage: uint8(stage),
			Tier:  tier,
		})
	}
	return rows
}

// AccountID converts a SteamID64 into the 32-bit account id. Anything that
// is not a valid individual SteamID64 maps to 0.
func AccountID(steamID globalapi.SteamID64) uint32 {
	id, err := strconv.ParseUint(string(steamID), 10, 64)
	if err != nil || id <= steamID64Base {
		return 0
	}
	account := id - steamID64Base
	if account > math.MaxUint32 {
		return 0
	}
	return uint32(account)
}

// workshopID prefers the KZ:GO value and falls back to the id query
// parameter of the Global API workshop url.
func workshopID(kzgoID, workshopURL string) *uint32 {
	if id, err := strconv.ParseUint(kzgoID, 10, 32); err == nil {
		v := uint32(id)
		return &v
	}
	if workshopURL == "" {
		return nil
	}
	u, err := url.Parse(workshopURL)
	if err != nil {
		return nil
	}
	if id, err := strconv.ParseUint(u.Query().Get("id"), 10, 32); err == nil {
		v := uint32(id)
		return &v
	}
	return nil
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, s); rfcErr == nil {
		return t.UTC(), nil
	}
	return time.Time{}, err
}
