package main

import (
	"fmt"

	"github.com/ascend-app/backend/internal/programs"

	"github.com/BurntSushi/toml"
)

// A catalog file is TOML with three kinds of top-level entries:
//
//	[[program]]
//	id = "push"
//	name = "Push"
//	description = "Pushup family, wall pushup to planche pushup"
//	category = "strength"
//
//	[[program]]
//	id = "full_body"
//	name = "Full Body"
//	is_master = true
//	sub_programs = ["push", "pull", "legs", "core"]
//
//	[[rule]]
//	program_id = "push"
//	level = 5
//	base_session_gain = 20.0
//	bonus_percent = 10.0
//	required_sets_for_full_gain = 6
//
//	[[rule.link]]
//	target_program_id = "core"
//	multiplier = 0.5
//
//	[[equivalence]]
//	source_program_id = "pull"
//	source_level = 8
//	target_program_id = "muscle_up"
//	target_level = 1
//	add_to_active_programs = true
//
// Equivalence rules are enabled unless the entry says enabled = false.
type catalogFile struct {
	Programs     []programEntry     `toml:"program"`
	Rules        []ruleEntry        `toml:"rule"`
	Equivalences []equivalenceEntry `toml:"equivalence"`
}

type programEntry struct {
	ID          string   `toml:"id"`
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Category    string   `toml:"category"`
	IsMaster    bool     `toml:"is_master"`
	SubPrograms []string `toml:"sub_programs"`
}

func (p programEntry) toProgram() programs.Program {
	return programs.Program{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		IsMaster:    p.IsMaster,
		SubPrograms: p.SubPrograms,
	}
}

type ruleEntry struct {
	ProgramID               string      `toml:"program_id"`
	Level                   int         `toml:"level"`
	BaseSessionGain         float64     `toml:"base_session_gain"`
	BonusPercent            float64     `toml:"bonus_percent"`
	RequiredSetsForFullGain int         `toml:"required_sets_for_full_gain"`
	Links                   []linkEntry `toml:"link"`
}

type linkEntry struct {
	TargetProgramID string  `toml:"target_program_id"`
	Multiplier      float64 `toml:"multiplier"`
}

func (r ruleEntry) toLevelRule() programs.LevelRule {
	rule := programs.LevelRule{
		ProgramID:               r.ProgramID,
		Level:                   r.Level,
		BaseSessionGain:         r.BaseSessionGain,
		BonusPercent:            r.BonusPercent,
		RequiredSetsForFullGain: r.RequiredSetsForFullGain,
	}
	for _, link := range r.Links {
		rule.LinkedPrograms = append(rule.LinkedPrograms, programs.LinkedProgram{
			TargetProgramID: link.TargetProgramID,
			Multiplier:      link.Multiplier,
		})
	}
	return rule
}

type equivalenceEntry struct {
	SourceProgramID     string  `toml:"source_program_id"`
	SourceLevel         int     `toml:"source_level"`
	TargetProgramID     string  `toml:"target_program_id"`
	TargetLevel         int     `toml:"target_level"`
	TargetPercent       float64 `toml:"target_percent"`
	AddToActivePrograms bool    `toml:"add_to_active_programs"`
	Enabled             *bool   `toml:"enabled"`
}

func (e equivalenceEntry) toEquivalenceRule() programs.EquivalenceRule {
	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}
	return programs.EquivalenceRule{
		SourceProgramID:     e.SourceProgramID,
		SourceLevel:         e.SourceLevel,
		TargetProgramID:     e.TargetProgramID,
		TargetLevel:         e.TargetLevel,
		TargetPercent:       e.TargetPercent,
		AddToActivePrograms: e.AddToActivePrograms,
		Enabled:             enabled,
	}
}

func loadCatalogFile(path string) (*catalogFile, error) {
	var catalog catalogFile
	if _, err := toml.DecodeFile(path, &catalog); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(catalog.Programs)+len(catalog.Rules)+len(catalog.Equivalences) == 0 {
		return nil, fmt.Errorf("%s defines no programs, level rules or equivalence rules", path)
	}

	seenPrograms := make(map[string]bool, len(catalog.Programs))
	for i, entry := range catalog.Programs {
		program := entry.toProgram()
		if err := program.Validate(); err != nil {
			return nil, fmt.Errorf("program entry %d (%q): %w", i+1, entry.ID, err)
		}
		if seenPrograms[entry.ID] {
			return nil, fmt.Errorf("program entry %d: duplicate program id %q", i+1, entry.ID)
		}
		seenPrograms[entry.ID] = true
	}

	type ruleKey struct {
		programID string
		level     int
	}
	seenRules := make(map[ruleKey]bool, len(catalog.Rules))
	for i, entry := range catalog.Rules {
		rule := entry.toLevelRule()
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("rule entry %d (%s level %d): %w", i+1, entry.ProgramID, entry.Level, err)
		}
		key := ruleKey{programID: entry.ProgramID, level: entry.Level}
		if seenRules[key] {
			return nil, fmt.Errorf("rule entry %d: duplicate rule for %s level %d", i+1, entry.ProgramID, entry.Level)
		}
		seenRules[key] = true
	}

	for i, entry := range catalog.Equivalences {
		rule := entry.toEquivalenceRule()
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf(
				"equivalence entry %d (%s -> %s): %w",
				i+1, entry.SourceProgramID, entry.TargetProgramID, err,
			)
		}
	}

	return &catalog, nil
}
