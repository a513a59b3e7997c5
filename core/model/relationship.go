package model

// RelationType is the precedence relation between two wagons.
type RelationType string

const (
	FinishToStart  RelationType = "FS"
	StartToStart   RelationType = "SS"
	FinishToFinish RelationType = "FF"
	StartToFinish  RelationType = "SF"
)

// Valid reports whether t is one of the four supported relation types.
func (t RelationType) Valid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Relationship is a directed precedence edge between two wagons. LagDays is
// signed: positive delays the successor, negative allows overlap. Lag is
// descriptive metadata only and never feeds the grid offset computation.
// Mandatory=false edges are advisory and never raise a critical warning.
type Relationship struct {
	PredecessorID string       `json:"predecessor_id"`
	SuccessorID   string       `json:"successor_id"`
	Type          RelationType `json:"type"`
	LagDays       int          `json:"lag_days"`
	Mandatory     bool         `json:"mandatory"`
}
