package models

import "time"

type Inquiry struct {
	ID             string    `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	ListingID      string    `bson:"listing_id" json:"listingId" gorm:"size:26;index;not null"`
	ListingOwnerID string    `bson:"listing_owner_id" json:"listingOwnerId" gorm:"size:26;index;not null"`
	ListingTitle   string    `bson:"listing_title" json:"listingTitle" gorm:"size:150"`
	BuyerID        string    `bson:"buyer_id" json:"buyerId" gorm:"size:26;not null"`
	BuyerName      string    `bson:"buyer_name" json:"buyerName" gorm:"size:120"`
	BuyerEmail     string    `bson:"buyer_email" json:"buyerEmail" gorm:"size:255"`
	Message        string    `bson:"message" json:"message" gorm:"type:text;not null"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt" gorm:"index"`
}

type CreateInquiryRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
