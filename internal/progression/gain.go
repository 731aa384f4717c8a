package progression

import "github.com/ascend-app/backend/internal/programs"

// SessionGain is the full breakdown of one session's gain computation.
// TotalGain is what the track updater applies; the intermediate values
// feed the completion result and the gain preview tooling.
type SessionGain struct {
	SetsPerformed    int     `json:"setsPerformed"`
	VolumeRatio      float64 `json:"volumeRatio"`
	BaseGain         float64 `json:"baseGain"`
	PerformanceRatio float64 `json:"performanceRatio"`
	BonusGain        float64 `json:"bonusGain"`
	TotalGain        float64 `json:"totalGain"`
}

// CalculateSessionGain turns the counted exercises of one workout and the
// rule for the primary program's current level into a bounded gain.
//
// The base gain scales linearly with performed sets up to the rule's
// required volume and is capped there. Beating the rep targets earns a
// bonus proportional to the excess, capped at the rule's bonus percent
// and scaled by the same volume ratio. With no rep targets at all the
// performance ratio is 1: no bonus, no penalty.
//
// Pure function, no side effects. Same inputs always produce the same
// gain.
func CalculateSessionGain(rule programs.LevelRule, counted []ExerciseResult) SessionGain {
	gain := SessionGain{PerformanceRatio: 1}

	for _, exercise := range counted {
		gain.SetsPerformed += exercise.SetsCompleted
	}

	volumeRatio := float64(gain.SetsPerformed) / float64(rule.RequiredSetsForFullGain)
	if volumeRatio > 1 {
		volumeRatio = 1
	}
	gain.VolumeRatio = volumeRatio
	gain.BaseGain = volumeRatio * rule.BaseSessionGain

	var actualReps, targetReps int
	for _, exercise := range counted {
		for _, reps := range exercise.RepsPerSet {
			actualReps += reps
		}
		targetReps += exercise.TargetReps * exercise.SetsCompleted
	}
	if targetReps > 0 {
		gain.PerformanceRatio = float64(actualReps) / float64(targetReps)
	}

	if gain.PerformanceRatio > 1 {
		excessPercent := (gain.PerformanceRatio - 1) * 100
		bonus := excessPercent * rule.BonusPercent / 100
		if bonus > rule.BonusPercent {
			bonus = rule.BonusPercent
		}
		gain.BonusGain = bonus * volumeRatio
	}

	gain.TotalGain = gain.BaseGain + gain.BonusGain
	return gain
}
