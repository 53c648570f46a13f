package models

// DateCreatedFormat is the display format stored on a thesis point,
// e.g. "Feb 03, 2026".
const DateCreatedFormat = "Jan 02, 2006"

// Attachment is a file object referenced by a thesis point. The key is the
// object-store key; it is random and never derived from the original
// filename. An attachment is either committed (listed on a persisted thesis
// point) or staged (uploaded but not yet linked to one).
type Attachment struct {
	Key          string `json:"key" firestore:"key"`
	OriginalName string `json:"originalname" firestore:"originalName"`
	URL          string `json:"fileLocationUrl" firestore:"url"`
}

// ThesisPoint is a dated note recorded against a vault. VaultID never
// changes after creation; the owning vault's ThesisPointIDs must contain
// this point's ID.
type ThesisPoint struct {
	ID          string       `json:"id" firestore:"-"` // Document ID, auto-generated
	DateCreated string       `json:"thesis_point_date_created" firestore:"dateCreated"`
	Title       string       `json:"thesis_point_title" firestore:"title"`
	Description string       `json:"thesis_point_description" firestore:"description"`
	Attachments []Attachment `json:"thesis_point_attachments" firestore:"attachments"`
	VaultID     string       `json:"thesis_vault" firestore:"vaultId"`
}
