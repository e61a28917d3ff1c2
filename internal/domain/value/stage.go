package value

import "strconv"

// Stage is the post-purchase delivery position of an item.
type Stage int

const (
	StagePending   Stage = 1
	StageDelivered Stage = 2
	StageFailed    Stage = 5
)

//nolint:gochecknoglobals
var stageNames = map[Stage]string{
	StagePending:   "pending",
	StageDelivered: "delivered",
	StageFailed:    "failed",
}

// Known reports whether s is one of the stages the marketplace documents.
func (s Stage) Known() bool {
	_, ok := stageNames[s]
	return ok
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}
