package progression

import "time"

// Exercise categories as submitted by the workout capture client.
const (
	CategoryWarmup       = "warmup"
	CategorySkill        = "skill"
	CategoryStrength     = "strength"
	CategoryStretch      = "stretch"
	CategoryConditioning = "conditioning"
)

// ExerciseResult is one exercise of a completed workout. ProgramLevels
// declares which programs the exercise counts toward and at which level
// the user performed it. TargetReps is the per set target.
type ExerciseResult struct {
	ExerciseID    string         `json:"exerciseId"`
	Category      string         `json:"category"`
	ProgramLevels map[string]int `json:"programLevels,omitempty"`
	SetsCompleted int            `json:"setsCompleted"`
	RepsPerSet    []int          `json:"repsPerSet,omitempty"`
	TargetReps    int            `json:"targetReps"`
}

// Counted reports whether the exercise contributes to session gain.
// Warmups and stretches never do.
func (e ExerciseResult) Counted() bool {
	return e.Category != CategoryWarmup && e.Category != CategoryStretch
}

// CountedExercises filters a workout down to the gain-relevant exercises.
func CountedExercises(exercises []ExerciseResult) []ExerciseResult {
	counted := make([]ExerciseResult, 0, len(exercises))
	for _, exercise := range exercises {
		if exercise.Counted() {
			counted = append(counted, exercise)
		}
	}
	return counted
}

// GainSummary describes how one track moved as a result of a workout.
type GainSummary struct {
	ProgramID     string  `json:"programId"`
	Gain          float64 `json:"gain"`
	LevelBefore   int     `json:"levelBefore"`
	LevelAfter    int     `json:"levelAfter"`
	PercentBefore float64 `json:"percentBefore"`
	PercentAfter  float64 `json:"percentAfter"`
	LeveledUp     bool    `json:"leveledUp"`
}

// LinkedGainSummary is a gain summary for a program that profited from the
// primary program's session, with the multiplier that was applied and
// whether the link was declared on the rule or inferred from shared
// exercises.
type LinkedGainSummary struct {
	GainSummary
	Multiplier float64 `json:"multiplier"`
	Source     string  `json:"source"`
}

// VolumeBreakdown sums set counts per category over the whole workout,
// warmups and stretches included.
type VolumeBreakdown struct {
	SetsPerCategory  map[string]int `json:"setsPerCategory"`
	CountedSets      int            `json:"countedSets"`
	CountedExercises int            `json:"countedExercises"`
	TotalExercises   int            `json:"totalExercises"`
}

// BreakdownVolume computes the volume breakdown for one workout.
func BreakdownVolume(exercises []ExerciseResult) VolumeBreakdown {
	breakdown := VolumeBreakdown{
		SetsPerCategory: make(map[string]int),
		TotalExercises:  len(exercises),
	}
	for _, exercise := range exercises {
		breakdown.SetsPerCategory[exercise.Category] += exercise.SetsCompleted
		if exercise.Counted() {
			breakdown.CountedSets += exercise.SetsCompleted
			breakdown.CountedExercises++
		}
	}
	return breakdown
}

// EquivalenceApplication records one fired equivalence rule.
type EquivalenceApplication struct {
	SourceProgramID string  `json:"sourceProgramId"`
	TargetProgramID string  `json:"targetProgramId"`
	NewLevel        int     `json:"newLevel"`
	NewPercent      float64 `json:"newPercent"`
	AddedToActive   bool    `json:"addedToActive"`
}

// ReadyForSplit signals that a generalized program should be decomposed
// into the suggested specialized ones.
type ReadyForSplit struct {
	IsReady           bool     `json:"isReady"`
	SuggestedPrograms []string `json:"suggestedPrograms"`
}

// CompletionResult is what the caller gets back for one processed workout.
// It is derived, not persisted; the tracks it describes are.
type CompletionResult struct {
	Primary       GainSummary              `json:"primary"`
	Linked        []LinkedGainSummary      `json:"linked,omitempty"`
	Volume        VolumeBreakdown          `json:"volume"`
	Equivalences  []EquivalenceApplication `json:"equivalences,omitempty"`
	ReadyForSplit *ReadyForSplit           `json:"readyForSplit,omitempty"`
	CompletedAt   time.Time                `json:"completedAt"`
}
