package api

// User представляет профиль участника программы лояльности
type User struct {
	BirthDate  *string `json:"birthDate"`
	Email      *string `json:"email"`
	Address    *string `json:"address"`
	Phone      string  `json:"phone"`
	FullName   string  `json:"fullName"`
	CardNumber string  `json:"cardNumber"`
	ID         int64   `json:"id"`
	IsVerified bool    `json:"isVerified"`
}

// ProfileResponse представляет ответ с профилем пользователя
type ProfileResponse struct {
	User    User `json:"user"`
	Success bool `json:"success"`
}

// UpdateProfileRequest содержит изменяемые поля профиля.
// Незаполненные (nil) поля не изменяются.
type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// PushTokenRequest обновляет push токен устройства
type PushTokenRequest struct {
	PushToken string `json:"pushToken"`
}

// StatusResponse представляет простой ответ об успехе операции
type StatusResponse struct {
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}
