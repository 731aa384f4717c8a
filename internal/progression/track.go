package progression

import "time"

// Track is one program's progress for one user. Percent always stays in
// [0,100); the overflow of an applied gain carries into level ups. Tracks
// are created lazily on first gain and never deleted.
type Track struct {
	ProgramID              string     `json:"programId"`
	CurrentLevel           int        `json:"currentLevel"`
	Percent                float64    `json:"percent"`
	LastActivityAt         *time.Time `json:"lastActivityAt,omitempty"`
	TotalSessionsCompleted int        `json:"totalSessionsCompleted"`
}

// NewTrack is the zero progress track for a program not trained before.
func NewTrack(programID string) Track {
	return Track{
		ProgramID:    programID,
		CurrentLevel: 1,
	}
}

// ApplyResult carries the updated track plus the level up signal
// downstream stages react to.
type ApplyResult struct {
	Track        Track
	LeveledUp    bool
	LevelsGained int
}

// Apply adds a session gain to the track. Overflow past 100 percent
// carries into level ups one by one, so a gain of 200+ produces multiple
// level ups from a single session. Gains below zero count as zero.
// The session counter and activity timestamp move on every application,
// for linked programs the same as for the primary.
func (t Track) Apply(gain float64, completedAt time.Time) ApplyResult {
	if gain < 0 {
		gain = 0
	}

	percent := t.Percent + gain
	level := t.CurrentLevel
	levelsGained := 0
	for percent >= 100 {
		level++
		levelsGained++
		percent -= 100
	}

	updated := t
	updated.CurrentLevel = level
	updated.Percent = percent
	updated.TotalSessionsCompleted++
	updated.LastActivityAt = &completedAt

	return ApplyResult{
		Track:        updated,
		LeveledUp:    levelsGained > 0,
		LevelsGained: levelsGained,
	}
}
