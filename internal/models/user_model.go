package models

import "time"

// User represents a registered journal user.
type User struct {
	ID           string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Name         string    `json:"name" firestore:"name"`
	Email        string    `json:"email" firestore:"email"`
	PasswordHash string    `json:"-" firestore:"passwordHash"` // bcrypt hash, never serialized to clients
	VaultIDs     []string  `json:"vaultIds" firestore:"vaultIds"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt    time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
