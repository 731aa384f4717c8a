package progression

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// LeveledProgram identifies a program that just crossed a level boundary,
// with the level it landed on.
type LeveledProgram struct {
	ProgramID string
	NewLevel  int
}

// EquivalenceEngine fires cross-program unlock rules when programs level
// up. A fired rule raises the target track to the rule's level, never
// lowers it, and optionally registers the target as an active program.
type EquivalenceEngine struct {
	catalog catalog
	users   userStore
}

func NewEquivalenceEngine(catalog catalog, users userStore) *EquivalenceEngine {
	return &EquivalenceEngine{
		catalog: catalog,
		users:   users,
	}
}

// Apply fires all enabled rules whose source just leveled up and whose
// source level threshold is met. Raised targets are fed back in as
// sources, so chains of rules fire transitively; a visited-source set
// bounds the closure. All track raises triggered by one source are
// written as one batch.
func (e *EquivalenceEngine) Apply(
	ctx context.Context,
	tracks TrackTx,
	userID int,
	leveled []LeveledProgram,
) ([]EquivalenceApplication, error) {
	var applications []EquivalenceApplication
	visitedSources := make(map[string]bool)
	queue := append([]LeveledProgram(nil), leveled...)

	for len(queue) > 0 {
		source := queue[0]
		queue = queue[1:]
		if visitedSources[source.ProgramID] {
			continue
		}
		visitedSources[source.ProgramID] = true

		rules, err := e.catalog.ListEquivalencesForSource(ctx, source.ProgramID)
		if err != nil {
			return applications, fmt.Errorf("list equivalence rules for %s: %w", source.ProgramID, err)
		}

		// raised targets of this batch, read through so overlapping
		// rules see each other and the level only ever goes up
		raised := make(map[string]Track)
		for _, rule := range rules {
			if rule.SourceLevel > source.NewLevel {
				continue
			}

			target, inBatch := raised[rule.TargetProgramID]
			if !inBatch {
				current, err := tracks.GetTrack(ctx, userID, rule.TargetProgramID)
				switch {
				case errors.Is(err, ErrTrackNotFound):
					target = NewTrack(rule.TargetProgramID)
				case err != nil:
					return applications, err
				default:
					target = *current
				}
			}
			if target.CurrentLevel >= rule.TargetLevel {
				continue
			}

			target.CurrentLevel = rule.TargetLevel
			target.Percent = rule.TargetPercent
			raised[rule.TargetProgramID] = target

			application := EquivalenceApplication{
				SourceProgramID: source.ProgramID,
				TargetProgramID: rule.TargetProgramID,
				NewLevel:        rule.TargetLevel,
				NewPercent:      rule.TargetPercent,
			}
			if rule.AddToActivePrograms {
				if err := e.users.AddActiveProgram(ctx, userID, rule.TargetProgramID); err != nil {
					return applications, fmt.Errorf("register active program %s: %w", rule.TargetProgramID, err)
				}
				application.AddedToActive = true
			}
			applications = append(applications, application)
		}

		if len(raised) == 0 {
			continue
		}

		raisedIDs := make([]string, 0, len(raised))
		for programID := range raised {
			raisedIDs = append(raisedIDs, programID)
		}
		sort.Strings(raisedIDs)

		batch := make([]Track, 0, len(raised))
		for _, programID := range raisedIDs {
			track := raised[programID]
			batch = append(batch, track)
			// each target re-enters the closure at its final level
			queue = append(queue, LeveledProgram{ProgramID: programID, NewLevel: track.CurrentLevel})
		}
		if err := tracks.UpsertTracks(ctx, userID, batch); err != nil {
			return applications, fmt.Errorf("write equivalence batch for %s: %w", source.ProgramID, err)
		}
	}

	return applications, nil
}
