package progression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ascend-app/backend/internal/programs"
	"github.com/ascend-app/backend/internal/telemetry/metrics"
	"github.com/ascend-app/backend/internal/telemetry/tracing"
	"github.com/ascend-app/backend/internal/users"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=service.go -destination=service_mocks_test.go -package=progression

type catalog interface {
	GetProgram(ctx context.Context, id string) (*programs.Program, error)
	ListMasters(ctx context.Context) ([]programs.Program, error)
	GetLevelRule(ctx context.Context, programID string, level int) (*programs.LevelRule, error)
	ListEquivalencesForSource(ctx context.Context, sourceProgramID string) ([]programs.EquivalenceRule, error)
}

type userStore interface {
	Get(ctx context.Context, id int) (*users.User, error)
	AddActiveProgram(ctx context.Context, userID int, programID string) error
	SetSplitReadyAnnounced(ctx context.Context, userID int) error
}

type trackStore interface {
	GetTrack(ctx context.Context, userID int, programID string) (*Track, error)
	ListTracks(ctx context.Context, userID int) ([]Track, error)
	InUserTx(ctx context.Context, userID int, fn func(ctx context.Context, tracks TrackTx) error) error
}

// Service orchestrates one workout completion end to end: gain, track
// updates, linked distribution, ancestor aggregation, equivalences, and
// the split milestone.
type Service struct {
	catalog      catalog
	users        userStore
	tracks       trackStore
	aggregator   *Aggregator
	equivalences *EquivalenceEngine
	split        *SplitDetector
	metrics      *metrics.Manager
}

func NewService(
	catalog catalog,
	users userStore,
	tracks trackStore,
	splitConfig SplitConfig,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		catalog:      catalog,
		users:        users,
		tracks:       tracks,
		aggregator:   NewAggregator(catalog),
		equivalences: NewEquivalenceEngine(catalog, users),
		split:        NewSplitDetector(splitConfig),
		metrics:      metricsManager,
	}
}

// ProcessWorkoutCompletion runs the completion pipeline in two phases.
//
// Phase one applies the primary and linked gains in a single
// advisory-locked transaction; if it fails, nothing is written and the
// whole call fails. Phase two propagates: ancestor masters, equivalence
// rules, and the split milestone. Phase two failures are logged and
// counted but swallowed, the caller still gets the primary result.
func (s *Service) ProcessWorkoutCompletion(
	ctx context.Context,
	userID int,
	programID string,
	exercises []ExerciseResult,
	completedAt time.Time,
) (_ *CompletionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.processWorkoutCompletion")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("program.id", programID))

	processingStart := time.Now()

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := s.catalog.GetProgram(ctx, programID); err != nil {
		return nil, fmt.Errorf("get primary program: %w", err)
	}

	counted := CountedExercises(exercises)

	result := &CompletionResult{
		Volume:      BreakdownVolume(exercises),
		CompletedAt: completedAt,
	}
	var leveled []LeveledProgram
	levelsGained := 0

	err = s.tracks.InUserTx(ctx, userID, func(ctx context.Context, tracks TrackTx) error {
		primary, err := tracks.GetTrack(ctx, userID, programID)
		switch {
		case errors.Is(err, ErrTrackNotFound):
			fresh := NewTrack(programID)
			primary = &fresh
		case err != nil:
			return err
		}

		rule := s.effectiveRule(ctx, programID, primary.CurrentLevel)
		gain := CalculateSessionGain(rule, counted)

		applied := primary.Apply(gain.TotalGain, completedAt)
		result.Primary = GainSummary{
			ProgramID:     programID,
			Gain:          gain.TotalGain,
			LevelBefore:   primary.CurrentLevel,
			LevelAfter:    applied.Track.CurrentLevel,
			PercentBefore: primary.Percent,
			PercentAfter:  applied.Track.Percent,
			LeveledUp:     applied.LeveledUp,
		}
		batch := []Track{applied.Track}
		if applied.LeveledUp {
			leveled = append(leveled, LeveledProgram{ProgramID: programID, NewLevel: applied.Track.CurrentLevel})
		}
		levelsGained += applied.LevelsGained

		for _, link := range ResolveLinks(programID, rule, counted) {
			linkedTrack, err := tracks.GetTrack(ctx, userID, link.ProgramID)
			switch {
			case errors.Is(err, ErrTrackNotFound):
				fresh := NewTrack(link.ProgramID)
				linkedTrack = &fresh
			case err != nil:
				return err
			}

			linkedApplied := linkedTrack.Apply(gain.TotalGain*link.Multiplier, completedAt)
			result.Linked = append(result.Linked, LinkedGainSummary{
				GainSummary: GainSummary{
					ProgramID:     link.ProgramID,
					Gain:          gain.TotalGain * link.Multiplier,
					LevelBefore:   linkedTrack.CurrentLevel,
					LevelAfter:    linkedApplied.Track.CurrentLevel,
					PercentBefore: linkedTrack.Percent,
					PercentAfter:  linkedApplied.Track.Percent,
					LeveledUp:     linkedApplied.LeveledUp,
				},
				Multiplier: link.Multiplier,
				Source:     link.Source,
			})
			batch = append(batch, linkedApplied.Track)
			if linkedApplied.LeveledUp {
				leveled = append(leveled, LeveledProgram{ProgramID: link.ProgramID, NewLevel: linkedApplied.Track.CurrentLevel})
			}
			levelsGained += linkedApplied.LevelsGained
		}

		return tracks.UpsertTracks(ctx, userID, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("apply workout gains: %w", err)
	}

	s.metrics.CounterWorkoutsProcessed.Inc()
	if levelsGained > 0 {
		s.metrics.CounterLevelUps.Add(float64(levelsGained))
	}

	if err := s.propagate(ctx, userID, user, result, leveled); err != nil {
		log.Errorf("workout completion, user %d program %s: propagation failed: %s", userID, programID, err)
		s.metrics.CounterPropagationFailures.Inc()
		result.Equivalences = nil
		result.ReadyForSplit = nil
	} else if result.ReadyForSplit != nil {
		// persist-then-announce: never announced without the flag set
		if err := s.users.SetSplitReadyAnnounced(ctx, userID); err != nil {
			log.Errorf("workout completion, user %d: record split announcement: %s", userID, err)
			s.metrics.CounterPropagationFailures.Inc()
			result.ReadyForSplit = nil
		} else {
			s.metrics.CounterSplitAnnouncements.Inc()
		}
	}
	if len(result.Equivalences) > 0 {
		s.metrics.CounterEquivalenceApplications.Add(float64(len(result.Equivalences)))
	}

	s.metrics.HistWorkoutProcessingDuration.Observe(time.Since(processingStart).Seconds())
	return result, nil
}

// propagate is phase two: ancestor recomputation for every changed
// track, equivalence applications for every level up, and the split
// readiness decision. Runs in its own advisory-locked transaction.
func (s *Service) propagate(
	ctx context.Context,
	userID int,
	user *users.User,
	result *CompletionResult,
	leveled []LeveledProgram,
) error {
	return s.tracks.InUserTx(ctx, userID, func(ctx context.Context, tracks TrackTx) error {
		changed := []string{result.Primary.ProgramID}
		for _, linked := range result.Linked {
			changed = append(changed, linked.ProgramID)
		}
		for _, programID := range changed {
			if err := s.aggregator.RecalculateAncestors(ctx, tracks, userID, programID); err != nil {
				return fmt.Errorf("recalculate ancestors of %s: %w", programID, err)
			}
		}

		if len(leveled) > 0 {
			applications, err := s.equivalences.Apply(ctx, tracks, userID, leveled)
			if err != nil {
				return fmt.Errorf("apply equivalences: %w", err)
			}
			result.Equivalences = applications

			raisedTargets := make(map[string]bool)
			for _, application := range applications {
				if raisedTargets[application.TargetProgramID] {
					continue
				}
				raisedTargets[application.TargetProgramID] = true
				if err := s.aggregator.RecalculateAncestors(ctx, tracks, userID, application.TargetProgramID); err != nil {
					return fmt.Errorf("recalculate ancestors of raised %s: %w", application.TargetProgramID, err)
				}
			}
		}

		ready := s.split.Detect(result.Primary.ProgramID, result.Primary.LevelAfter)
		if ready.IsReady && !user.SplitReadyAnnounced {
			result.ReadyForSplit = &ready
		}
		return nil
	})
}

// effectiveRule resolves the authored rule for (program, level) and falls
// back to the built-in defaults on a miss. A miss is not an error.
func (s *Service) effectiveRule(ctx context.Context, programID string, level int) programs.LevelRule {
	rule, err := s.catalog.GetLevelRule(ctx, programID, level)
	if err != nil {
		if !errors.Is(err, programs.ErrLevelRuleNotFound) {
			log.Errorf("get level rule %s/%d: %s, using defaults", programID, level, err)
		}
		return programs.DefaultLevelRule(programID, level)
	}
	return *rule
}

// GetTrack returns one of the user's tracks.
func (s *Service) GetTrack(ctx context.Context, userID int, programID string) (*Track, error) {
	return s.tracks.GetTrack(ctx, userID, programID)
}

// ListTracks returns all tracks of the user, masters included with their
// derived values as stored.
func (s *Service) ListTracks(ctx context.Context, userID int) ([]Track, error) {
	return s.tracks.ListTracks(ctx, userID)
}

// ActiveProgramStatus joins one registered program with its track, if
// the user has trained it yet.
type ActiveProgramStatus struct {
	ProgramID string `json:"programId"`
	Name      string `json:"name"`
	Track     *Track `json:"track,omitempty"`
}

// UserSummary is the per-user progression overview.
type UserSummary struct {
	Username            string                `json:"username"`
	ActivePrograms      []ActiveProgramStatus `json:"activePrograms"`
	Tracks              []Track               `json:"tracks"`
	SplitReadyAnnounced bool                  `json:"splitReadyAnnounced"`
}

// Summary builds the progression overview for one user: active programs
// joined with their tracks, all tracks, and the split announcement state.
func (s *Service) Summary(ctx context.Context, userID int) (_ *UserSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progression.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	tracks, err := s.tracks.ListTracks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}

	tracksByProgram := make(map[string]*Track, len(tracks))
	for i := range tracks {
		tracksByProgram[tracks[i].ProgramID] = &tracks[i]
	}

	summary := &UserSummary{
		Username:            user.Username,
		ActivePrograms:      make([]ActiveProgramStatus, 0, len(user.ActivePrograms)),
		Tracks:              tracks,
		SplitReadyAnnounced: user.SplitReadyAnnounced,
	}
	for _, programID := range user.ActivePrograms {
		status := ActiveProgramStatus{
			ProgramID: programID,
			Track:     tracksByProgram[programID],
		}
		program, err := s.catalog.GetProgram(ctx, programID)
		if err != nil {
			log.Errorf("summary, get program %s: %s", programID, err)
		} else {
			status.Name = program.Name
		}
		summary.ActivePrograms = append(summary.ActivePrograms, status)
	}

	return summary, nil
}
