package models

// User is a dashboard viewer account.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"` // e-mail used at sign-in
	FullName     string `json:"full_name,omitempty"`
	PasswordHash string `json:"-"` // don’t expose hash
}
