package model

import "time"

// User is the persisted account row. PasswordHash never crosses the API
// boundary; handlers always serialize AccountInfo instead.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Fullname     string
	Email        string
	Tel          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountInfo is the client-facing view of an account.
type AccountInfo struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Tel       string    `json:"tel"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Info() AccountInfo {
	return AccountInfo{
		ID:        u.ID,
		Username:  u.Username,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Tel:       u.Tel,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthClaims is the verified token payload attached to request contexts.
type AuthClaims struct {
	UserID   int64  `json:"sub"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult is the login response body: a bearer token plus the account.
type LoginResult struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	User      AccountInfo `json:"user"`
}
