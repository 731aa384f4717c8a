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
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		creds              credentials
		expectedStatusCode int
		assertFunc         func(resp *http.Response)
	}{
		"good creds": {
			creds: credentials{
				Username: testUsername,
				Password: testPassword,
			},
			expectedStatusCode: http.StatusOK,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				s.Require().NoError(err)

				var loginResp loginResponse
				s.Require().NoError(json.Unmarshal(respBytes, &loginResp))
				s.Assert().NotEmpty(loginResp.Token)
			},
		},
		"good creds, then logout": {
			creds: credentials{
				Username: testUsername,
				Password: testPassword,
			},
			expectedStatusCode: http.StatusOK,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				s.Require().NoError(err)

				var loginResp loginResponse
				s.Require().NoError(json.Unmarshal(respBytes, &loginResp))
				s.Require().NotEmpty(loginResp.Token)

				req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/logout", serverEndpoint), nil)
				s.Require().NoError(err)
				req.Header.Set("User-Agent", "test-agent")
				req.Header.Set("X-ASCEND-TOKEN", loginResp.Token)

				logoutResp, err := s.httpClient.Do(req)
				s.Require().NoError(err)
				defer logoutResp.Body.Close()
				s.Assert().Equal(http.StatusOK, logoutResp.StatusCode)

				logoutBytes, err := io.ReadAll(logoutResp.Body)
				s.Require().NoError(err)
				s.Assert().Equal("logged-out", string(logoutBytes))
			},
		},
		"bad password": {
			creds: credentials{
				Username: testUsername,
				Password: "bad-password",
			},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				s.Require().NoError(err)
				respString := strings.TrimSpace(string(respBytes))
				s.Assert().Equal("error, wrong credentials", respString)
			},
		},
		"bad username": {
			creds: credentials{
				Username: "bad-username",
				Password: testPassword,
			},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(resp *http.Response) {
				respBytes, err := io.ReadAll(resp.Body)
				s.Require().NoError(err)
				respString := strings.TrimSpace(string(respBytes))
				s.Assert().Equal("error, wrong credentials", respString)
			},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			credsJson, err := json.Marshal(tc.creds)
			s.Require().NoError(err)

			req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewReader(credsJson))
			s.Require().NoError(err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			s.Require().NoError(err)
			s.Require().Equal(tc.expectedStatusCode, resp.StatusCode)
			defer resp.Body.Close()

			tc.assertFunc(resp)
		})
	}

	t.Run("rate limiting", func(t *testing.T) {
		// simulate a login brute force attack
		credsJson, err := json.Marshal(credentials{
			Username: "brute-force-user",
			Password: "brute-force-pass",
		})
		s.Require().NoError(err)

		// config allows 10 login attempts per minute, attempts after that
		// get told to come back later; start from fresh buckets
		s.Require().NoError(s.redisDataCleanup(ctx))

		for i := 1; i <= 15; i++ {
			req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewReader(credsJson))
			s.Require().NoError(err)
			req.Header.Set("User-Agent", "test-agent")
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.httpClient.Do(req)
			s.Require().NoError(err)

			respBytes, err := io.ReadAll(resp.Body)
			s.Require().NoError(err, "iteration: %d", i)

			if i <= 10 {
				s.Require().Equal(http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			} else {
				s.Require().Equal(http.StatusTooEarly, resp.StatusCode, "iteration: %d", i)
				s.Assert().True(
					strings.HasPrefix(string(respBytes), "retry after"),
					"iteration: %d, body: %s", i, respBytes,
				)
			}

			s.Assert().NoError(resp.Body.Close())
		}

		s.Require().NoError(s.redisDataCleanup(ctx))
	})
}

func (s *IntegrationTestSuite) TestRegister() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := s.registerUser(ctx, "fresh-user", "freshpass123")
	s.Assert().Equal("fresh-user", user.Username)
	s.Assert().False(user.IsAdmin)
	s.Assert().Empty(user.ActivePrograms)

	// the new account can log in right away
	token := s.login(ctx, "fresh-user", "freshpass123")
	s.Assert().NotEmpty(token)

	// username is taken now
	credsJson, err := json.Marshal(credentials{
		Username: "fresh-user",
		Password: "freshpass123",
	})
	s.Require().NoError(err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/register", serverEndpoint), bytes.NewReader(credsJson))
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusConflict, resp.StatusCode)
}
