package log

type LogTag uint

// Pipeline stage a log entry belongs to.
const (
	LogTagUnknown LogTag = iota

	LogTagInit
	LogTagFetching
	LogTagBuilding
	LogTagWriting
)

var tagToString = map[LogTag]string{
	LogTagUnknown:  "log_tag_unknown",
	LogTagInit:     "init",
	LogTagFetching: "fetching",
	LogTagBuilding: "building",
	LogTagWriting:  "writing",
}

// Implement [fmt.Stringer] interface.
func (e LogTag) String() string {
	if tag, ok := tagToString[e]; ok {
		return tag
	}
	return LogTagUnknown.String()
}
