package programs

import "errors"

var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramExists       = errors.New("program already exists")
	ErrLevelRuleNotFound   = errors.New("level rule not found")
	ErrEquivalenceNotFound = errors.New("equivalence rule not found")
)

// Program is a static catalog entry: a trainable progression (push, squat,
// handstand, ...) or a master program aggregating the progress of its
// sub-programs (e.g. full_body -> [push, pull, legs, core]).
type Program struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsMaster    bool   `json:"isMaster"`
	// SubPrograms is ordered and only set on master programs.
	SubPrograms []string `json:"subPrograms,omitempty"`
}

type LinkedProgram struct {
	TargetProgramID string  `json:"targetProgramId"`
	Multiplier      float64 `json:"multiplier"`
}

// LevelRule describes how much a completed session moves a program
// at a given level, and which other programs profit from it.
type LevelRule struct {
	ProgramID               string          `json:"programId"`
	Level                   int             `json:"level"`
	BaseSessionGain         float64         `json:"baseSessionGain"`
	BonusPercent            float64         `json:"bonusPercent"`
	RequiredSetsForFullGain int             `json:"requiredSetsForFullGain"`
	LinkedPrograms          []LinkedProgram `json:"linkedPrograms,omitempty"`
}

// DefaultLevelRule returns the built-in rule for programs without an
// authored one. Higher levels progress slower and ask for more volume.
// Same level always yields the same rule.
func DefaultLevelRule(programID string, level int) LevelRule {
	rule := LevelRule{
		ProgramID: programID,
		Level:     level,
	}
	switch {
	case level <= 4:
		rule.BaseSessionGain = 25
		rule.BonusPercent = 10
		rule.RequiredSetsForFullGain = 12
	case level <= 9:
		rule.BaseSessionGain = 20
		rule.BonusPercent = 10
		rule.RequiredSetsForFullGain = 15
	case level <= 19:
		rule.BaseSessionGain = 15
		rule.BonusPercent = 8
		rule.RequiredSetsForFullGain = 18
	default:
		rule.BaseSessionGain = 10
		rule.BonusPercent = 5
		rule.RequiredSetsForFullGain = 20
	}
	return rule
}

// EquivalenceRule unlocks a level on the target program once the source
// program reaches the source level. Applications only ever raise the
// target, they never lower it.
type EquivalenceRule struct {
	ID                  int     `json:"id"`
	SourceProgramID     string  `json:"sourceProgramId"`
	SourceLevel         int     `json:"sourceLevel"`
	TargetProgramID     string  `json:"targetProgramId"`
	TargetLevel         int     `json:"targetLevel"`
	TargetPercent       float64 `json:"targetPercent"`
	AddToActivePrograms bool    `json:"addToActivePrograms"`
	Enabled             bool    `json:"enabled"`
}

// Validate checks catalog input on admin writes.
func (p *Program) Validate() error {
	if p.ID == "" {
		return errors.New("program id empty")
	}
	if p.Name == "" {
		return errors.New("program name empty")
	}
	if !p.IsMaster && len(p.SubPrograms) > 0 {
		return errors.New("sub programs set on a non-master program")
	}
	seen := make(map[string]bool, len(p.SubPrograms))
	for _, sub := range p.SubPrograms {
		if sub == p.ID {
			return errors.New("program cannot be its own sub program")
		}
		if seen[sub] {
			return errors.New("duplicate sub program: " + sub)
		}
		seen[sub] = true
	}
	return nil
}

func (r *LevelRule) Validate() error {
	if r.ProgramID == "" {
		return errors.New("level rule program id empty")
	}
	if r.Level < 1 {
		return errors.New("level rule level must be >= 1")
	}
	if r.BaseSessionGain < 0 {
		return errors.New("base session gain must be >= 0")
	}
	if r.BonusPercent < 0 {
		return errors.New("bonus percent must be >= 0")
	}
	if r.RequiredSetsForFullGain <= 0 {
		return errors.New("required sets for full gain must be > 0")
	}
	for _, link := range r.LinkedPrograms {
		if link.TargetProgramID == "" {
			return errors.New("linked program target id empty")
		}
		if link.TargetProgramID == r.ProgramID {
			return errors.New("linked program cannot target its own program")
		}
		if link.Multiplier < 0 {
			return errors.New("linked program multiplier must be >= 0")
		}
	}
	return nil
}

func (e *EquivalenceRule) Validate() error {
	if e.SourceProgramID == "" || e.TargetProgramID == "" {
		return errors.New("equivalence source and target ids must be set")
	}
	if e.SourceProgramID == e.TargetProgramID {
		return errors.New("equivalence cannot target its own source")
	}
	if e.SourceLevel < 1 || e.TargetLevel < 1 {
		return errors.New("equivalence levels must be >= 1")
	}
	if e.TargetPercent < 0 || e.TargetPercent >= 100 {
		return errors.New("equivalence target percent must be in [0, 100)")
	}
	return nil
}
