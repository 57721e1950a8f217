package models

import "time"

type Report struct {
	ID         string       `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	ListingID  string       `bson:"listing_id" json:"listingId" gorm:"size:26;index;not null"`
	ReporterID string       `bson:"reporter_id" json:"reporterId" gorm:"size:26;not null"`
	Reason     string       `bson:"reason" json:"reason" gorm:"size:120;not null"`
	Details    string       `bson:"details" json:"details" gorm:"type:text"`
	Status     ReportStatus `bson:"status" json:"status" gorm:"size:16;index;not null"`
	CreatedAt  time.Time    `bson:"created_at" json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time    `bson:"updated_at" json:"updatedAt"`
}

type CreateReportRequest struct {
	Reason  string `json:"reason" validate:"required,max=120"`
	Details string `json:"details" validate:"max=2000"`
}
