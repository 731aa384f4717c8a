package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/ascend-app/backend/internal/programs"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) createProgram(ctx context.Context, token string, program programs.Program) {
	programJson, err := json.Marshal(program)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/programs", serverEndpoint),
		bytes.NewReader(programJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ASCEND-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
}

func (s *IntegrationTestSuite) setLevelRule(ctx context.Context, token string, rule programs.LevelRule) {
	ruleJson, err := json.Marshal(rule)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"PUT", fmt.Sprintf("%s/programs/%s/rules/%d", serverEndpoint, rule.ProgramID, rule.Level),
		bytes.NewReader(ruleJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ASCEND-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) createEquivalence(ctx context.Context, token string, rule programs.EquivalenceRule) int {
	ruleJson, err := json.Marshal(rule)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/programs/equivalence", serverEndpoint),
		bytes.NewReader(ruleJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-ASCEND-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var created programs.CreatedEquivalenceResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &created))
	require.NotZero(s.T(), created.ID)

	return created.ID
}

func (s *IntegrationTestSuite) getProgram(ctx context.Context, token, id string) (programs.Program, int) {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/programs/%s", serverEndpoint, id),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-ASCEND-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return programs.Program{}, resp.StatusCode
	}

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var program programs.Program
	require.NoError(s.T(), json.Unmarshal(respBytes, &program))
	return program, resp.StatusCode
}

func (s *IntegrationTestSuite) TestProgramCatalogCrud() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	adminToken := s.adminLogin(ctx)

	s.createProgram(ctx, adminToken, programs.Program{
		ID:       "front_lever",
		Name:     "Front Lever",
		Category: "skill",
	})

	t.Run("duplicate program is rejected", func(t *testing.T) {
		programJson, err := json.Marshal(programs.Program{
			ID:   "front_lever",
			Name: "Front Lever",
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/programs", serverEndpoint), bytes.NewReader(programJson))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		s.Assert().Equal(http.StatusConflict, resp.StatusCode)
	})

	t.Run("get and update", func(t *testing.T) {
		program, status := s.getProgram(ctx, adminToken, "front_lever")
		require.Equal(t, http.StatusOK, status)
		s.Assert().Equal("Front Lever", program.Name)
		s.Assert().Equal("skill", program.Category)
		s.Assert().False(program.IsMaster)

		updatedJson, err := json.Marshal(programs.Program{
			Name:     "Front Lever Progression",
			Category: "skill",
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/programs/front_lever", serverEndpoint), bytes.NewReader(updatedJson))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		program, status = s.getProgram(ctx, adminToken, "front_lever")
		require.Equal(t, http.StatusOK, status)
		s.Assert().Equal("Front Lever Progression", program.Name)
	})

	t.Run("list contains the program", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/programs", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var listed []programs.Program
		require.NoError(t, json.Unmarshal(respBytes, &listed))

		found := false
		for _, program := range listed {
			if program.ID == "front_lever" {
				found = true
				break
			}
		}
		s.Assert().True(found, "front_lever not in the program list")
	})

	t.Run("authored level rule wins over the default", func(t *testing.T) {
		s.setLevelRule(ctx, adminToken, programs.LevelRule{
			ProgramID:               "front_lever",
			Level:                   1,
			BaseSessionGain:         18,
			BonusPercent:            6,
			RequiredSetsForFullGain: 9,
		})

		rule := s.getLevelRule(ctx, adminToken, "front_lever", 1)
		s.Assert().Equal("authored", rule.Source)
		s.Assert().Equal(float64(18), rule.BaseSessionGain)
		s.Assert().Equal(9, rule.RequiredSetsForFullGain)

		// no rule authored for level 2, the built-in default comes back
		rule = s.getLevelRule(ctx, adminToken, "front_lever", 2)
		s.Assert().Equal("default", rule.Source)
		s.Assert().Equal(float64(25), rule.BaseSessionGain)
		s.Assert().Equal(float64(10), rule.BonusPercent)
		s.Assert().Equal(12, rule.RequiredSetsForFullGain)
	})

	t.Run("level rule on unknown program", func(t *testing.T) {
		ruleJson, err := json.Marshal(programs.LevelRule{
			BaseSessionGain:         10,
			BonusPercent:            5,
			RequiredSetsForFullGain: 10,
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/programs/ghost_program/rules/1", serverEndpoint), bytes.NewReader(ruleJson))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
	})

	t.Run("equivalence lifecycle", func(t *testing.T) {
		s.createProgram(ctx, adminToken, programs.Program{
			ID:   "dragon_flag",
			Name: "Dragon Flag",
		})

		equivalenceID := s.createEquivalence(ctx, adminToken, programs.EquivalenceRule{
			SourceProgramID:     "front_lever",
			SourceLevel:         3,
			TargetProgramID:     "dragon_flag",
			TargetLevel:         2,
			AddToActivePrograms: true,
			Enabled:             true,
		})

		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/programs/equivalence", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		var rules []programs.EquivalenceRule
		require.NoError(t, json.Unmarshal(respBytes, &rules))
		var listedRule *programs.EquivalenceRule
		for i := range rules {
			if rules[i].ID == equivalenceID {
				listedRule = &rules[i]
				break
			}
		}
		require.NotNil(t, listedRule, "created equivalence not listed")
		s.Assert().Equal("front_lever", listedRule.SourceProgramID)
		s.Assert().True(listedRule.AddToActivePrograms)
		s.Assert().True(listedRule.Enabled)

		// raise the unlock percent
		updateJson, err := json.Marshal(programs.EquivalenceRule{
			SourceProgramID: "front_lever",
			SourceLevel:     3,
			TargetProgramID: "dragon_flag",
			TargetLevel:     2,
			TargetPercent:   50,
			Enabled:         true,
		})
		require.NoError(t, err)

		updateReq, err := http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/programs/equivalence/%d", serverEndpoint, equivalenceID), bytes.NewReader(updateJson))
		require.NoError(t, err)
		updateReq.Header.Set("User-Agent", "test-agent")
		updateReq.Header.Set("Content-Type", "application/json")
		updateReq.Header.Set("X-ASCEND-TOKEN", adminToken)

		updateResp, err := s.httpClient.Do(updateReq)
		require.NoError(t, err)
		defer updateResp.Body.Close()
		require.Equal(t, http.StatusOK, updateResp.StatusCode)

		deleteReq, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/programs/equivalence/%d", serverEndpoint, equivalenceID), nil)
		require.NoError(t, err)
		deleteReq.Header.Set("User-Agent", "test-agent")
		deleteReq.Header.Set("X-ASCEND-TOKEN", adminToken)

		deleteResp, err := s.httpClient.Do(deleteReq)
		require.NoError(t, err)
		defer deleteResp.Body.Close()
		s.Assert().Equal(http.StatusOK, deleteResp.StatusCode)
	})

	t.Run("delete program", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/programs/front_lever", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-ASCEND-TOKEN", adminToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var deleted programs.DeletedResponse
		require.NoError(t, json.Unmarshal(respBytes, &deleted))
		s.Assert().Equal("front_lever", deleted.DeletedID)

		_, status := s.getProgram(ctx, adminToken, "front_lever")
		s.Assert().Equal(http.StatusNotFound, status)
	})
}

func (s *IntegrationTestSuite) getLevelRule(ctx context.Context, token, programID string, level int) programs.ResolvedLevelRuleResponse {
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/programs/%s/rules/%d", serverEndpoint, programID, level),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-ASCEND-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var resolved programs.ResolvedLevelRuleResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &resolved))
	return resolved
}

func (s *IntegrationTestSuite) TestProgramWritesNeedAdmin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.registerUser(ctx, "plain-user", "plainpass123")
	plainToken := s.login(ctx, "plain-user", "plainpass123")

	t.Run("reads are open to any session", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/programs", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("X-ASCEND-TOKEN", plainToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		s.Assert().Equal(http.StatusOK, resp.StatusCode)
	})

	t.Run("catalog writes are admin only", func(t *testing.T) {
		programJson, err := json.Marshal(programs.Program{
			ID:   "sneaky_program",
			Name: "Sneaky Program",
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/programs", serverEndpoint), bytes.NewReader(programJson))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-ASCEND-TOKEN", plainToken)

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusForbidden, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		s.Assert().Equal("no can do", strings.TrimSpace(string(respBytes)))
	})

	t.Run("no session at all", func(t *testing.T) {
		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/programs", serverEndpoint), nil)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		s.Assert().Equal(http.StatusUnauthorized, resp.StatusCode)
	})
}
