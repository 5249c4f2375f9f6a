// Package models holds the server's domain types shared by repositories,
// services and the HTTP layer.
package models

import "time"

// User is an account. PasswordHash is never serialised.
type User struct {
	ID           string    `json:"_id"`
	UserName     string    `json:"username"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionUser is the identity snapshot stored in a web session.
type SessionUser struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
	Phone    string `json:"phone"`
}
