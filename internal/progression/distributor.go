package progression

import (
	"sort"

	"github.com/ascend-app/backend/internal/programs"
)

// Link sources on a linked gain summary.
const (
	LinkSourceDeclared = "declared"
	LinkSourceInferred = "inferred"
)

// ProgramLink is one program that receives a fraction of the primary
// program's session gain.
type ProgramLink struct {
	ProgramID  string
	Multiplier float64
	Source     string
}

// ResolveLinks merges the rule-declared links with links inferred from
// shared exercises. An inferred link is any program referenced by a
// counted exercise that is neither primary nor already declared; its
// multiplier is half its volume contribution (the fraction of counted
// exercises referencing it). Declared links win on conflict. Inferred
// links come out sorted by program id so the same workout always yields
// the same distribution.
func ResolveLinks(primaryProgramID string, rule programs.LevelRule, counted []ExerciseResult) []ProgramLink {
	links := make([]ProgramLink, 0, len(rule.LinkedPrograms))
	declared := make(map[string]bool, len(rule.LinkedPrograms))
	for _, linked := range rule.LinkedPrograms {
		if linked.TargetProgramID == primaryProgramID || declared[linked.TargetProgramID] {
			continue
		}
		declared[linked.TargetProgramID] = true
		links = append(links, ProgramLink{
			ProgramID:  linked.TargetProgramID,
			Multiplier: linked.Multiplier,
			Source:     LinkSourceDeclared,
		})
	}

	if len(counted) == 0 {
		return links
	}

	references := make(map[string]int)
	for _, exercise := range counted {
		for programID := range exercise.ProgramLevels {
			references[programID]++
		}
	}

	inferredIDs := make([]string, 0, len(references))
	for programID := range references {
		if programID == primaryProgramID || declared[programID] {
			continue
		}
		inferredIDs = append(inferredIDs, programID)
	}
	sort.Strings(inferredIDs)

	totalCounted := float64(len(counted))
	for _, programID := range inferredIDs {
		volumeContribution := float64(references[programID]) / totalCounted
		links = append(links, ProgramLink{
			ProgramID:  programID,
			Multiplier: 0.5 * volumeContribution,
			Source:     LinkSourceInferred,
		})
	}
	return links
}
