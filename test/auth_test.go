package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ascend-app/backend/internal/users"

	"github.com/stretchr/testify/require"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// login logs the given account in and returns its session token.
func (s *IntegrationTestSuite) login(ctx context.Context, username, password string) string {
	creds := credentials{
		Username: username,
		Password: password,
	}
	credsJson, err := json.Marshal(creds)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/a/login", serverEndpoint),
		bytes.NewReader(credsJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), respBytes)

	var loginResp loginResponse
	require.NoError(s.T(), json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(s.T(), loginResp.Token)

	return loginResp.Token
}

// adminLogin returns a session token for the pre-provisioned admin account.
func (s *IntegrationTestSuite) adminLogin(ctx context.Context) string {
	return s.login(ctx, testUsername, testPassword)
}

// registerUser creates a fresh account over the public register endpoint.
func (s *IntegrationTestSuite) registerUser(ctx context.Context, username, password string) users.User {
	creds := credentials{
		Username: username,
		Password: password,
	}
	credsJson, err := json.Marshal(creds)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/a/register", serverEndpoint),
		bytes.NewReader(credsJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)

	var user users.User
	require.NoError(s.T(), json.Unmarshal(respBytes, &user))
	require.NotZero(s.T(), user.ID)

	return user
}
