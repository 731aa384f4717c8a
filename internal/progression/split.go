package progression

import "slices"

// SplitConfig drives the ready-for-split milestone: which generalized
// programs are watched, the level that triggers the suggestion, and the
// decomposition to suggest.
type SplitConfig struct {
	EligiblePrograms  []string
	ReadyLevel        int
	SuggestedPrograms []string
}

// DefaultSplitConfig watches undifferentiated full body training and
// suggests a push/pull/legs split once it reaches level 10.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{
		EligiblePrograms:  []string{"full_body"},
		ReadyLevel:        10,
		SuggestedPrograms: []string{"push", "pull", "legs"},
	}
}

// SplitDetector is stateless: it always recomputes the readiness boolean
// from the inputs. Announcing the milestone at most once is the
// orchestrator's job, backed by the persisted user flag.
type SplitDetector struct {
	cfg SplitConfig
}

func NewSplitDetector(cfg SplitConfig) *SplitDetector {
	return &SplitDetector{cfg: cfg}
}

// Detect reports whether the given program at the given level qualifies
// for a split suggestion.
func (d *SplitDetector) Detect(programID string, level int) ReadyForSplit {
	if !slices.Contains(d.cfg.EligiblePrograms, programID) {
		return ReadyForSplit{}
	}
	if level < d.cfg.ReadyLevel {
		return ReadyForSplit{}
	}
	return ReadyForSplit{
		IsReady:           true,
		SuggestedPrograms: d.cfg.SuggestedPrograms,
	}
}
