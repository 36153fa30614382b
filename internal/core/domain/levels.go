package domain

// User levels, derived purely from score.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// Score thresholds for each level.
const (
	scoreIntermediate = 100
	scoreAdvanced     = 500
	scoreExpert       = 1000
)

// LevelForScore maps a score to its level. Pure; recomputed on every read.
func LevelForScore(score int64) string {
	switch {
	case score >= scoreExpert:
		return LevelExpert
	case score >= scoreAdvanced:
		return LevelAdvanced
	case score >= scoreIntermediate:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}
