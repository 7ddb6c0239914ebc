package auth

import (
	"context"

	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

//go:generate moq -out refresher_mock.go . Refresher
//go:generate moq -out authapi_mock.go . AuthAPI

// TokenCipher шифрует записи токенов перед записью в хранилище
type TokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, blob string) (string, error)
}

// Tokens - хранилище пары токенов, которым пользуется Session
type Tokens interface {
	SetTokens(ctx context.Context, accessToken, refreshToken string) error
	GetAccessToken(ctx context.Context) (string, bool)
	GetRefreshToken(ctx context.Context) (string, bool)
	ClearTokens(ctx context.Context)
}

// Refresher обменивает refresh token на новый access token
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*pkgapi.RefreshResponse, error)
}

// AuthAPI - неаутентифицированные эндпоинты входа
type AuthAPI interface {
	RequestCode(ctx context.Context, req pkgapi.RequestCodeRequest) (*pkgapi.RequestCodeResponse, error)
	VerifyCode(ctx context.Context, req pkgapi.VerifyCodeRequest) (*pkgapi.VerifyCodeResponse, error)
	CompleteRegistration(ctx context.Context, req pkgapi.CompleteRegistrationRequest) (*pkgapi.CompleteRegistrationResponse, error)
}
