package models

import "time"

type User struct {
	ID             string    `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	Name           string    `bson:"name" json:"name" gorm:"size:120;not null"`
	Email          string    `bson:"email" json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone          string    `bson:"phone" json:"phone" gorm:"size:30"`
	Role           Role      `bson:"role" json:"role" gorm:"size:16;not null"`
	Active         bool      `bson:"active" json:"active"`
	PasswordDigest string    `bson:"password_digest" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}
