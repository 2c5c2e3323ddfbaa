package seed

import (
	"time"
)

type Mode uint8

const (
	ModeKZTimer  Mode = 200
	ModeSimpleKZ Mode = 201
	ModeVanilla  Mode = 202
)

var Modes = []Mode{ModeKZTimer, ModeSimpleKZ, ModeVanilla}

var modeToString = map[Mode]string{
	ModeKZTimer:  "kz_timer",
	ModeSimpleKZ: "kz_simple",
	ModeVanilla:  "kz_vanilla",
}

func (m Mode) String() string {
	if name, ok := modeToString[m]; ok {
		return name
	}
	return "unknown"
}

// Course ids pack the map id and the stage: map 992, bonus 2 is 992002.
const courseIDFactor = 1000

func CourseID(mapID, stage int) int {
	return mapID*courseIDFactor + stage
}

type MapRow struct {
	ID         uint16    `ch:"id"`
	Name       string    `ch:"name"`
	Global     bool      `ch:"global"`
	Filesize   uint32    `ch:"filesize"`
	ApprovedBy uint32    `ch:"approved_by"`
	WorkshopID *uint32   `ch:"workshop_id"`
	CreatedOn  time.Time `ch:"created_on"`
	UpdatedOn  time.Time `ch:"updated_on"`
}

var mapSchema = []Column{
	{Name: "id", Type: TypeUInt16, Key: true},
	{Name: "name", Type: TypeString},
	{Name: "global", Type: TypeBool},
	{Name: "filesize", Type: TypeUInt32},
	{Name: "approved_by", Type: TypeUInt32},
	{Name: "workshop_id", Type: TypeUInt32, Nullable: true},
	{Name: "created_on", Type: TypeDateTime},
	{Name: "updated_on", Type: TypeDateTime},
}

func (MapRow) Schema() []Column { return mapSchema }

func (r MapRow) Values() []any {
	var workshopID any
	if r.WorkshopID != nil {
		workshopID = *r.WorkshopID
	}
	return []any{
		r.ID,
		r.Name,
		r.Global,
		r.Filesize,
		r.ApprovedBy,
		workshopID,
		r.CreatedOn,
		r.UpdatedOn,
	}
}

type CourseRow struct {
	ID    uint32 `ch:"id"`
	MapID uint16 `ch:"map_id"`
	Stage uint8  `ch:"stage"`
	Tier  uint8  `ch:"tier"`
}

var courseSchema = []Column{
	{Name: "id", Type: TypeUInt32, Key: true},
	{Name: "map_id", Type: TypeUInt16},
	{Name: "stage", Type: TypeUInt8},
	{Name: "tier", Type: TypeUInt8},
}

func (CourseRow) Schema() []Column { return courseSchema }

func (r CourseRow) Values() []any {
	return []any{r.ID, r.MapID, r.Stage, r.Tier}
}

type FilterRow struct {
	CourseID uint32 `ch:"course_id"`
	ModeID   uint8  `ch:"mode_id"`
}

var filterSchema = []Column{
	{Name: "course_id", Type: TypeUInt32, Key: true},
	{Name: "mode_id", Type: TypeUInt8, Key: true},
}

func (FilterRow) Schema() []Column { return filterSchema }

func (r FilterRow) Values() []any {
	return []any{r.CourseID, r.ModeID}
}
