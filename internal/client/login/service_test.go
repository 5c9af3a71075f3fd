package login

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientapi "github.com/olyox/partner-cli/internal/client/api"
	"github.com/olyox/partner-cli/pkg/api"
)

// mockLoginAPI implements loginAPI for testing
type mockLoginAPI struct {
	requestResp  *api.AckResponse
	requestErr   error
	requestCalls int
	verifyResp   *api.TokenResponse
	verifyErr    error
	verifyCalls  int
}

func (m *mockLoginAPI) RequestLoginOtp(ctx context.Context, bhID, msgType string) (*api.AckResponse, error) {
	m.requestCalls++
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	return m.requestResp, nil
}

func (m *mockLoginAPI) VerifyOtp(ctx context.Context, bhID, otp string) (*api.TokenResponse, error) {
	m.verifyCalls++
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.verifyResp, nil
}

// mockSession implements tokenSink for testing
type mockSession struct {
	token string
	bhID  string
	err   error
}

func (m *mockSession) SetToken(ctx context.Context, token, bhID string) error {
	if m.err != nil {
		return m.err
	}
	m.token = token
	m.bhID = bhID
	return nil
}

func TestRequestOtp_Success(t *testing.T) {
	client := &mockLoginAPI{requestResp: &api.AckResponse{Success: true, Message: "OTP sent"}}
	svc := NewService(client, &mockSession{}, nil)

	result, err := svc.RequestOtp(context.Background(), "BH436459")
	require.NoError(t, err)
	assert.Equal(t, OutcomeOtpSent, result.Outcome)
	assert.Equal(t, "OTP sent", result.Message)
}

func TestRequestOtp_LocalValidation(t *testing.T) {
	client := &mockLoginAPI{}
	svc := NewService(client, &mockSession{}, nil)

	for _, bad := range []string{"", "BH", "436459"} {
		_, err := svc.RequestOtp(context.Background(), bad)
		assert.Error(t, err)
	}
	assert.Equal(t, 0, client.requestCalls, "invalid BH ID must not reach the network")
}

func TestRequestOtp_NotRegisteredRedirects(t *testing.T) {
	// Unknown BH ID sends the flow to registration with the ID pre-filled;
	// the session stays unauthenticated.
	client := &mockLoginAPI{
		requestErr: &clientapi.Error{
			StatusCode: http.StatusForbidden,
			Code:       clientapi.CodeNotRegistered,
			Message:    "BH ID is not registered as a partner",
		},
	}
	session := &mockSession{}
	svc := NewService(client, session, nil)

	result, err := svc.RequestOtp(context.Background(), "BH000000")
	require.NoError(t, err)
	assert.Equal(t, OutcomeGoToRegistration, result.Outcome)
	assert.Equal(t, "BH000000", result.BhID)
	assert.Equal(t, "BH ID is not registered as a partner", result.Message)
	assert.Empty(t, session.token)
}

func TestRequestOtp_ProfileIncompleteRedirects(t *testing.T) {
	client := &mockLoginAPI{
		requestErr: &clientapi.Error{
			StatusCode: http.StatusForbidden,
			Code:       clientapi.CodeProfileIncomplete,
		},
	}
	svc := NewService(client, &mockSession{}, nil)

	result, err := svc.RequestOtp(context.Background(), "BH436459")
	require.NoError(t, err)
	assert.Equal(t, OutcomeGoToCompleteProfile, result.Outcome)
	assert.Equal(t, "BH436459", result.BhID)
}

func TestRequestOtp_OtherErrorsSurface(t *testing.T) {
	client := &mockLoginAPI{requestErr: errors.New("connection refused")}
	svc := NewService(client, &mockSession{}, nil)

	_, err := svc.RequestOtp(context.Background(), "BH436459")
	assert.Error(t, err)
}

func TestVerifyOtp_HandsTokenToSession(t *testing.T) {
	client := &mockLoginAPI{verifyResp: &api.TokenResponse{Success: true, Token: "session-token-abc"}}
	session := &mockSession{}
	svc := NewService(client, session, nil)

	err := svc.VerifyOtp(context.Background(), "BH436459", "123456")
	require.NoError(t, err)
	assert.Equal(t, "session-token-abc", session.token)
	assert.Equal(t, "BH436459", session.bhID)
}

func TestVerifyOtp_LocalLengthCheck(t *testing.T) {
	client := &mockLoginAPI{}
	session := &mockSession{}
	svc := NewService(client, session, nil)

	err := svc.VerifyOtp(context.Background(), "BH436459", "1234")
	assert.Error(t, err)
	assert.Equal(t, 0, client.verifyCalls)
	assert.Empty(t, session.token)
}

func TestVerifyOtp_ServerRejects(t *testing.T) {
	client := &mockLoginAPI{
		verifyErr: &clientapi.Error{StatusCode: 400, Code: clientapi.CodeInvalidOtp, Message: "Invalid OTP"},
	}
	session := &mockSession{}
	svc := NewService(client, session, nil)

	err := svc.VerifyOtp(context.Background(), "BH436459", "000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OTP")
	assert.Empty(t, session.token)
}
