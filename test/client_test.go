//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/workoutlog/internal/auth"
	"github.com/2beens/workoutlog/internal/middleware"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) newRequest(ctx context.Context, method, path, token string, body io.Reader) *http.Request {
	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	return req
}

// doJSON sends body (if any) as JSON and returns the status code and the response body.
func (s *IntegrationTestSuite) doJSON(ctx context.Context, method, path, token string, body any) (int, []byte) {
	t := s.T()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req := s.newRequest(ctx, method, path, token, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.do(req)
}

func (s *IntegrationTestSuite) do(req *http.Request) (int, []byte) {
	t := s.T()

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

// registerUser creates a fresh account and returns its session.
func (s *IntegrationTestSuite) registerUser(ctx context.Context) auth.Session {
	t := s.T()

	status, body := s.doJSON(ctx, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    uuid.NewString() + "@example.com",
		"password": "test-password-1",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var session auth.Session
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.Token)
	require.NotNil(t, session.User)

	return session
}
