package models

import "time"

// Vault represents one investment holding and owns an ordered list of
// thesis point IDs. OwnerUserID never changes after creation, and the
// vault name is globally unique.
type Vault struct {
	ID             string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Name           string    `json:"vault_name" firestore:"name"`
	Sector         string    `json:"vault_sector" firestore:"sector"`
	ThesisPointIDs []string  `json:"vault_thesis" firestore:"thesisPointIds"`
	OwnerUserID    string    `json:"vault_creator" firestore:"ownerUserId"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
