package progression

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
)

// maxHierarchyDepth bounds every walk over the program hierarchy. The
// catalog is externally authored, so traversals guard against cycles and
// runaway nesting instead of trusting the data.
const maxHierarchyDepth = 10

var (
	ErrCycleDetected    = errors.New("program hierarchy cycle detected")
	ErrHierarchyTooDeep = errors.New("program hierarchy too deep")
	ErrNotMaster        = errors.New("program is not a master program")
)

// ChildProgress is one child's contribution to a master's aggregate.
type ChildProgress struct {
	ProgramID string  `json:"programId"`
	Level     int     `json:"level"`
	Percent   float64 `json:"percent"`
	IsMaster  bool    `json:"isMaster"`
}

// MasterProgress is the derived state of a master program.
type MasterProgress struct {
	ProgramID string          `json:"programId"`
	Level     int             `json:"level"`
	Percent   float64         `json:"percent"`
	Children  []ChildProgress `json:"children"`
}

// Aggregator derives master program tracks from their children,
// recursively through nested masters.
type Aggregator struct {
	catalog catalog
}

func NewAggregator(catalog catalog) *Aggregator {
	return &Aggregator{catalog: catalog}
}

// ComputeMasterProgress recomputes the aggregate level and percent of a
// master program and persists it into the master's own track. The level
// is the floored mean of the child levels, the percent the mean of the
// child percents rounded to two decimals. A child without a track counts
// as level 1 at zero percent. Recomputing with unchanged children stores
// the same values again, so retries are safe.
//
// visited holds the program ids on the current descent path; pass a
// fresh map at the top of a walk.
func (a *Aggregator) ComputeMasterProgress(
	ctx context.Context,
	tracks TrackTx,
	userID int,
	programID string,
	visited map[string]bool,
) (*MasterProgress, error) {
	if visited[programID] {
		return nil, fmt.Errorf("%w: %s", ErrCycleDetected, programID)
	}
	if len(visited) >= maxHierarchyDepth {
		return nil, fmt.Errorf("%w: at %s", ErrHierarchyTooDeep, programID)
	}
	visited[programID] = true
	defer delete(visited, programID)

	program, err := a.catalog.GetProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("get program %s: %w", programID, err)
	}
	if !program.IsMaster || len(program.SubPrograms) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotMaster, programID)
	}

	progress := &MasterProgress{
		ProgramID: programID,
		Children:  make([]ChildProgress, 0, len(program.SubPrograms)),
	}
	levelSum := 0
	percentSum := 0.0
	for _, childID := range program.SubPrograms {
		child, err := a.catalog.GetProgram(ctx, childID)
		if err != nil {
			return nil, fmt.Errorf("get sub program %s: %w", childID, err)
		}

		childLevel, childPercent := 1, 0.0
		if child.IsMaster {
			sub, err := a.ComputeMasterProgress(ctx, tracks, userID, childID, visited)
			if err != nil {
				return nil, err
			}
			childLevel, childPercent = sub.Level, sub.Percent
		} else {
			track, err := tracks.GetTrack(ctx, userID, childID)
			switch {
			case errors.Is(err, ErrTrackNotFound):
				// untrained child, counts as fresh
			case err != nil:
				return nil, err
			default:
				childLevel, childPercent = track.CurrentLevel, track.Percent
			}
		}

		progress.Children = append(progress.Children, ChildProgress{
			ProgramID: childID,
			Level:     childLevel,
			Percent:   childPercent,
			IsMaster:  child.IsMaster,
		})
		levelSum += childLevel
		percentSum += childPercent
	}

	childCount := float64(len(program.SubPrograms))
	progress.Level = int(math.Floor(float64(levelSum) / childCount))
	progress.Percent = math.Round(percentSum/childCount*100) / 100

	masterTrack, err := tracks.GetTrack(ctx, userID, programID)
	switch {
	case errors.Is(err, ErrTrackNotFound):
		fresh := NewTrack(programID)
		masterTrack = &fresh
	case err != nil:
		return nil, err
	}
	masterTrack.CurrentLevel = progress.Level
	masterTrack.Percent = progress.Percent
	if err := tracks.UpsertTracks(ctx, userID, []Track{*masterTrack}); err != nil {
		return nil, fmt.Errorf("persist master track %s: %w", programID, err)
	}

	return progress, nil
}

// RecalculateAncestors recomputes every master whose aggregate depends on
// the changed program, walking upward through grand-masters until no
// ancestor is left. The reverse lookup goes over the all-masters list.
func (a *Aggregator) RecalculateAncestors(ctx context.Context, tracks TrackTx, userID int, changedProgramID string) error {
	return a.recalculateAncestors(ctx, tracks, userID, changedProgramID, make(map[string]bool), 0)
}

func (a *Aggregator) recalculateAncestors(
	ctx context.Context,
	tracks TrackTx,
	userID int,
	changedProgramID string,
	visited map[string]bool,
	depth int,
) error {
	if depth > maxHierarchyDepth {
		return fmt.Errorf("%w: above %s", ErrHierarchyTooDeep, changedProgramID)
	}
	if visited[changedProgramID] {
		return nil
	}
	visited[changedProgramID] = true

	masters, err := a.catalog.ListMasters(ctx)
	if err != nil {
		return fmt.Errorf("list masters: %w", err)
	}

	for _, master := range masters {
		if !slices.Contains(master.SubPrograms, changedProgramID) {
			continue
		}
		if _, err := a.ComputeMasterProgress(ctx, tracks, userID, master.ID, make(map[string]bool)); err != nil {
			return fmt.Errorf("recompute master %s: %w", master.ID, err)
		}
		if err := a.recalculateAncestors(ctx, tracks, userID, master.ID, visited, depth+1); err != nil {
			return err
		}
	}

	return nil
}
