package rest

import "time"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credential is a stored password. Login travels as "userId" on the wire.
type Credential struct {
	ID        string    `json:"id"`
	Product   string    `json:"product"`
	Login     string    `json:"userId"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type saveRequest struct {
	Product  string `json:"product"`
	Login    string `json:"userId"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}
