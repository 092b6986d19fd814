package models

import "github.com/google/uuid"

type User struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Username    string    `json:"username,omitempty"`

	IsAdmin bool `json:"is_admin"`
	Blocked bool `json:"blocked"`
}
