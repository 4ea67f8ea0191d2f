package models

import (
	"time"
)

// Roles a user can hold. The main admin flag is separate from the role.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RolePastor = "pastor"
	RoleViewer = "viewer"
)

// User is an account able to sign in to the admin area.
// Password is write-only: it's accepted on create/update and replaced by PasswordHash.
type User struct {
	Document     `bson:",inline"`
	Name         string     `bson:"name" json:"name" validate:"required"`
	Email        string     `bson:"email" json:"email" validate:"required,email"`
	Password     string     `bson:"-" json:"password,omitempty"`
	PasswordHash string     `bson:"passwordHash,omitempty" json:"-"`
	Role         string     `bson:"role" json:"role" validate:"required,role"`
	IsMainAdmin  bool       `bson:"isMainAdmin" json:"isMainAdmin"`
	Avatar       string     `bson:"avatar,omitempty" json:"avatar,omitempty"`
	LastLoginAt  *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
}
