package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

type statusReporterStub struct {
	deviceID string
	valid    bool
}

func (s statusReporterStub) DeviceID(ctx context.Context) (string, error) { return s.deviceID, nil }
func (s statusReporterStub) TokenVersionValid(ctx context.Context) bool   { return s.valid }

func newTestService(api *AuthAPIMock, tokens *memTokens) *Service {
	session := NewSession(tokens, &RefresherMock{}, nil)
	return NewService(api, session, statusReporterStub{deviceID: "device-1", valid: true}, nil)
}

func TestService_RequestCode(t *testing.T) {
	api := &AuthAPIMock{
		RequestCodeFunc: func(ctx context.Context, req pkgapi.RequestCodeRequest) (*pkgapi.RequestCodeResponse, error) {
			return &pkgapi.RequestCodeResponse{Success: true, ExpiresIn: 300}, nil
		},
	}
	svc := newTestService(api, &memTokens{})

	resp, err := svc.RequestCode(context.Background(), "+38 050 123 45 67", "push-token")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	require.Len(t, api.RequestCodeCalls(), 1)
	assert.Equal(t, "+380501234567", api.RequestCodeCalls()[0].Req.Phone, "номер нормализуется")
	assert.Equal(t, "push-token", api.RequestCodeCalls()[0].Req.PushToken)
}

func TestService_RequestCode_InvalidPhone(t *testing.T) {
	api := &AuthAPIMock{}
	svc := newTestService(api, &memTokens{})

	_, err := svc.RequestCode(context.Background(), "12345", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid phone")
	assert.Empty(t, api.RequestCodeCalls())
}

func TestService_VerifyCode_Success(t *testing.T) {
	api := &AuthAPIMock{
		VerifyCodeFunc: func(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error) {
			return &pkgapi.VerifyCodeResponse{
				Success:      true,
				Token:        "access",
				RefreshToken: "refresh",
				User:         pkgapi.User{ID: 7, Phone: req.Phone},
			}, nil
		},
	}
	tokens := &memTokens{}
	svc := newTestService(api, tokens)

	user, err := svc.VerifyCode(context.Background(), "+380501234567", "12345")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	assert.Equal(t, "access", tokens.access)
	assert.Equal(t, "refresh", tokens.refresh)
	assert.Equal(t, StateAuthenticated, svc.session.State())
}

func TestService_VerifyCode_DoesNotPersistOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		verify func(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error)
	}{
		{
			name: "server rejects mismatched code",
			code: "11111",
			verify: func(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error) {
				return nil, errors.New("invalid code")
			},
		},
		{
			name: "unsuccessful response",
			code: "11111",
			verify: func(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error) {
				return &pkgapi.VerifyCodeResponse{Success: false}, nil
			},
		},
		{
			name: "response without refresh token",
			code: "11111",
			verify: func(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error) {
				return &pkgapi.VerifyCodeResponse{Success: true, Token: "access"}, nil
			},
		},
		{
			name: "malformed code is not sent",
			code: "12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &AuthAPIMock{VerifyCodeFunc: tt.verify}
			tokens := &memTokens{}
			svc := newTestService(api, tokens)

			_, err := svc.VerifyCode(context.Background(), "+380501234567", tt.code)
			require.Error(t, err)

			assert.Empty(t, tokens.access)
			assert.Empty(t, tokens.refresh)
			assert.Equal(t, StateUnauthenticated, svc.session.State())
		})
	}
}

func TestService_CompleteRegistration(t *testing.T) {
	api := &AuthAPIMock{
		CompleteRegistrationFunc: func(ctx context.Context, req pkgapi.CompleteRegistrationRequest) (*pkgapi.CompleteRegistrationResponse, error) {
			return &pkgapi.CompleteRegistrationResponse{
				Success: true,
				User:    pkgapi.User{Phone: req.Phone, FullName: req.FullName},
			}, nil
		},
	}
	svc := newTestService(api, &memTokens{})

	user, err := svc.CompleteRegistration(context.Background(), "+380501234567", "  Олена   Петренко ")
	require.NoError(t, err)
	assert.Equal(t, "Олена Петренко", user.FullName)

	_, err = svc.CompleteRegistration(context.Background(), "+380501234567", "X")
	assert.Error(t, err)
	assert.Len(t, api.CompleteRegistrationCalls(), 1)
}

func TestService_StatusAndLogout(t *testing.T) {
	ctx := context.Background()
	tokens := &memTokens{access: "a", refresh: "r"}
	svc := newTestService(&AuthAPIMock{}, tokens)

	st, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, st.State)
	assert.Equal(t, "device-1", st.DeviceID)
	assert.True(t, st.TokenVersionValid)

	svc.Logout(ctx)

	st, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, st.State)
}
