package models

import "time"

// StagedUpload tracks an object that was uploaded to the store but not yet
// committed to any thesis point. The record is removed when the attachment
// is committed, discarded, or reclaimed by the background sweeper.
type StagedUpload struct {
	Key      string    `json:"key" firestore:"-"` // Document ID == object key
	StagedAt time.Time `json:"stagedAt" firestore:"stagedAt"`
}
