package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repairdepot/storefront/internal/auth"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/types"
)

type stubAuthService struct {
	lastEmail    string
	lastToken    string
	lastPassword string
	err          error
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	s.lastEmail = email
	return auth.ForgotPasswordMessage, s.err
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) (string, error) {
	s.lastToken = token
	s.lastPassword = password
	if s.err != nil {
		return "", s.err
	}
	return auth.ResetPasswordMessage, nil
}

func TestAuthForgotPasswordReturnsMessage(t *testing.T) {
	svc := &stubAuthService{}
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", strings.NewReader(`{"email":"dee@example.com"}`))
	AuthForgotPassword(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body types.MessageEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, auth.ForgotPasswordMessage, body.Message)
	assert.Equal(t, "dee@example.com", svc.lastEmail)
}

func TestAuthResetPasswordErrorEnvelope(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeValidation, "This reset link is invalid or has expired.")}
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", strings.NewReader(`{"password":"long-enough","token":"abc"}`))
	AuthResetPassword(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "This reset link is invalid or has expired.", body.Error.Message)
	assert.Equal(t, "abc", svc.lastToken)
}

func TestAuthResetPasswordRejectsUnknownFields(t *testing.T) {
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password", strings.NewReader(`{"password":"long-enough","token":"abc","admin":true}`))
	AuthResetPassword(&stubAuthService{}, nil).ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
