package programs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=catalog.go -destination=catalog_mocks_test.go -package=programs

type catalogRepo interface {
	CreateProgram(ctx context.Context, program Program) error
	UpdateProgram(ctx context.Context, program Program) error
	DeleteProgram(ctx context.Context, id string) error
	GetProgram(ctx context.Context, id string) (*Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)
	ListMasters(ctx context.Context) ([]Program, error)
	GetLevelRule(ctx context.Context, programID string, level int) (*LevelRule, error)
	SetLevelRule(ctx context.Context, rule LevelRule) error
	CreateEquivalence(ctx context.Context, rule EquivalenceRule) (int, error)
	UpdateEquivalence(ctx context.Context, rule EquivalenceRule) error
	DeleteEquivalence(ctx context.Context, id int) error
	ListEquivalencesForSource(ctx context.Context, sourceProgramID string) ([]EquivalenceRule, error)
	ListEquivalences(ctx context.Context) ([]EquivalenceRule, error)
}

// Catalog is the cached read/write surface for the program catalog.
// Reads are cache-aside over the repo, admin writes invalidate.
// The workout path resolves programs and rules through this, so catalog
// queries stay off the hot path most of the time.
type Catalog struct {
	repo  catalogRepo
	cache *freecache.Cache
	ttl   time.Duration
}

func NewCatalog(repo catalogRepo, cache *freecache.Cache, ttl time.Duration) *Catalog {
	return &Catalog{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
	}
}

func programCacheKey(id string) []byte {
	return []byte("program::" + id)
}

func ruleCacheKey(programID string, level int) []byte {
	return []byte(fmt.Sprintf("rule::%s::%d", programID, level))
}

func equivalencesCacheKey(sourceProgramID string) []byte {
	return []byte("equiv::" + sourceProgramID)
}

var (
	allProgramsCacheKey = []byte("programs")
	mastersCacheKey     = []byte("masters")
)

func (c *Catalog) GetProgram(ctx context.Context, id string) (*Program, error) {
	cacheKey := programCacheKey(id)
	if cachedBytes, err := c.cache.Get(cacheKey); err == nil {
		var program Program
		if err := json.Unmarshal(cachedBytes, &program); err == nil {
			return &program, nil
		}
		log.Errorf("failed to unmarshal cached program %s: %s", id, err)
	}

	program, err := c.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	c.setCache(cacheKey, program)
	return program, nil
}

func (c *Catalog) ListPrograms(ctx context.Context) ([]Program, error) {
	if cachedBytes, err := c.cache.Get(allProgramsCacheKey); err == nil {
		var programs []Program
		if err := json.Unmarshal(cachedBytes, &programs); err == nil {
			return programs, nil
		}
		log.Errorf("failed to unmarshal cached programs list: %s", err)
	}

	programs, err := c.repo.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}

	c.setCache(allProgramsCacheKey, programs)
	return programs, nil
}

func (c *Catalog) ListMasters(ctx context.Context) ([]Program, error) {
	if cachedBytes, err := c.cache.Get(mastersCacheKey); err == nil {
		var masters []Program
		if err := json.Unmarshal(cachedBytes, &masters); err == nil {
			return masters, nil
		}
		log.Errorf("failed to unmarshal cached masters list: %s", err)
	}

	masters, err := c.repo.ListMasters(ctx)
	if err != nil {
		return nil, err
	}

	c.setCache(mastersCacheKey, masters)
	return masters, nil
}

// GetLevelRule returns the authored rule for (programID, level).
// A miss comes back as ErrLevelRuleNotFound and is not cached, callers
// fall back to DefaultLevelRule.
func (c *Catalog) GetLevelRule(ctx context.Context, programID string, level int) (*LevelRule, error) {
	cacheKey := ruleCacheKey(programID, level)
	if cachedBytes, err := c.cache.Get(cacheKey); err == nil {
		var rule LevelRule
		if err := json.Unmarshal(cachedBytes, &rule); err == nil {
			return &rule, nil
		}
		log.Errorf("failed to unmarshal cached level rule %s/%d: %s", programID, level, err)
	}

	rule, err := c.repo.GetLevelRule(ctx, programID, level)
	if err != nil {
		return nil, err
	}

	c.setCache(cacheKey, rule)
	return rule, nil
}

func (c *Catalog) ListEquivalencesForSource(ctx context.Context, sourceProgramID string) ([]EquivalenceRule, error) {
	cacheKey := equivalencesCacheKey(sourceProgramID)
	if cachedBytes, err := c.cache.Get(cacheKey); err == nil {
		var rules []EquivalenceRule
		if err := json.Unmarshal(cachedBytes, &rules); err == nil {
			return rules, nil
		}
		log.Errorf("failed to unmarshal cached equivalences for %s: %s", sourceProgramID, err)
	}

	rules, err := c.repo.ListEquivalencesForSource(ctx, sourceProgramID)
	if err != nil {
		return nil, err
	}

	c.setCache(cacheKey, rules)
	return rules, nil
}

// ListEquivalences is an admin view, uncached.
func (c *Catalog) ListEquivalences(ctx context.Context) ([]EquivalenceRule, error) {
	return c.repo.ListEquivalences(ctx)
}

func (c *Catalog) CreateProgram(ctx context.Context, program Program) error {
	if err := c.repo.CreateProgram(ctx, program); err != nil {
		return err
	}
	c.invalidateProgram(program.ID)
	return nil
}

func (c *Catalog) UpdateProgram(ctx context.Context, program Program) error {
	if err := c.repo.UpdateProgram(ctx, program); err != nil {
		return err
	}
	c.invalidateProgram(program.ID)
	return nil
}

func (c *Catalog) DeleteProgram(ctx context.Context, id string) error {
	if err := c.repo.DeleteProgram(ctx, id); err != nil {
		return err
	}
	// rules and equivalences cascade with the program
	c.cache.Clear()
	return nil
}

func (c *Catalog) SetLevelRule(ctx context.Context, rule LevelRule) error {
	if err := c.repo.SetLevelRule(ctx, rule); err != nil {
		return err
	}
	c.cache.Del(ruleCacheKey(rule.ProgramID, rule.Level))
	return nil
}

func (c *Catalog) CreateEquivalence(ctx context.Context, rule EquivalenceRule) (int, error) {
	id, err := c.repo.CreateEquivalence(ctx, rule)
	if err != nil {
		return 0, err
	}
	c.cache.Del(equivalencesCacheKey(rule.SourceProgramID))
	return id, nil
}

// UpdateEquivalence may move a rule to another source program, so the
// per-source entries cannot be invalidated selectively.
func (c *Catalog) UpdateEquivalence(ctx context.Context, rule EquivalenceRule) error {
	if err := c.repo.UpdateEquivalence(ctx, rule); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *Catalog) DeleteEquivalence(ctx context.Context, id int) error {
	if err := c.repo.DeleteEquivalence(ctx, id); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

func (c *Catalog) invalidateProgram(id string) {
	c.cache.Del(programCacheKey(id))
	c.cache.Del(allProgramsCacheKey)
	c.cache.Del(mastersCacheKey)
}

func (c *Catalog) setCache(key []byte, value any) {
	valueBytes, err := json.Marshal(value)
	if err != nil {
		log.Errorf("failed to marshal cache value for %s: %s", key, err)
		return
	}
	if err := c.cache.Set(key, valueBytes, int(c.ttl.Seconds())); err != nil {
		log.Errorf("failed to write cache for %s: %s", key, err)
	}
}
