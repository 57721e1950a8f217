package models

import "time"

// ApprovalAction is one entry of the append-only moderation audit trail.
type ApprovalAction struct {
	ID           string             `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	ListingID    string             `bson:"listing_id" json:"listingId" gorm:"size:26;index;not null"`
	ListingTitle string             `bson:"listing_title" json:"listingTitle" gorm:"size:150"`
	AdminID      string             `bson:"admin_id" json:"adminId" gorm:"size:26;not null"`
	Action       ApprovalActionType `bson:"action" json:"action" gorm:"size:16;not null"`
	Note         *string            `bson:"note" json:"note"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt" gorm:"index"`
}

// ModerationNoteRequest is the optional body of a moderation decision.
// Reject and suspend clients send a reason, the others a note.
type ModerationNoteRequest struct {
	Note   string `json:"note" validate:"max=500"`
	Reason string `json:"reason" validate:"max=500"`
}

func (r ModerationNoteRequest) Text() string {
	if r.Reason != "" {
		return r.Reason
	}
	return r.Note
}

type AdminStats struct {
	PendingListings   int64 `json:"pendingListings"`
	ApprovedListings  int64 `json:"approvedListings"`
	RejectedListings  int64 `json:"rejectedListings"`
	SuspendedListings int64 `json:"suspendedListings"`
	TotalListings     int64 `json:"totalListings"`
	OpenReports       int64 `json:"openReports"`
}
