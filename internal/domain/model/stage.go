package model

// Stage is the position of a checkpoint in the per-worker state machine.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageFetching   Stage = "fetching"
	StageExtracting Stage = "extracting"
	StageApplying   Stage = "applying"
	StageAdvancing  Stage = "advancing"
)

func (s Stage) String() string {
	return string(s)
}

// Ordinal is the value exported on the stage gauge.
func (s Stage) Ordinal() int {
	switch s {
	case StageFetching:
		return 1
	case StageExtracting:
		return 2
	case StageApplying:
		return 3
	case StageAdvancing:
		return 4
	default:
		return 0
	}
}
