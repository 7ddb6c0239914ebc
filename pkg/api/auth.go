package api

// RequestCodeRequest представляет запрос на отправку одноразового кода
type RequestCodeRequest struct {
	Phone     string `json:"phone"`               // номер телефона в формате E.164
	PushToken string `json:"pushToken,omitempty"` // push токен устройства
}

// RequestCodeResponse представляет ответ на запрос кода
type RequestCodeResponse struct {
	User         *User  `json:"user"`         // профиль, если пользователь уже зарегистрирован
	Message      string `json:"message"`      // сообщение для пользователя
	ExpiresIn    int64  `json:"expiresIn"`    // время жизни кода в секундах
	Success      bool   `json:"success"`      // признак успешной отправки
	IsRegistered bool   `json:"isRegistered"` // пользователь уже завершил регистрацию
}

// VerifyCodeRequest представляет запрос на проверку кода
type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyCodeResponse представляет ответ с токенами после успешной проверки кода
type VerifyCodeResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token"`        // access token
	RefreshToken string `json:"refreshToken"` // refresh token
	Success      bool   `json:"success"`
}

// CompleteRegistrationRequest завершает регистрацию нового пользователя
type CompleteRegistrationRequest struct {
	Phone    string `json:"phone"`
	FullName string `json:"fullName"`
}

// CompleteRegistrationResponse представляет ответ на завершение регистрации
type CompleteRegistrationResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Success bool   `json:"success"`
}

// RefreshRequest представляет запрос на обновление access token
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshResponse представляет ответ с новым access token.
// RefreshToken заполнен только если сервер ротирует refresh token.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Success      bool   `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
