package auth

import "errors"

var (
	// ErrNotAuthenticated - нет сохраненной сессии
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRefreshFailed - обновление токена не удалось, сессия завершена
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshToken - refresh token отсутствует в хранилище
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrVerificationFailed - сервер не подтвердил одноразовый код
	ErrVerificationFailed = errors.New("code verification failed")
)
