package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

type Listing struct {
	ID                string          `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	OwnerID           string          `bson:"owner_id" json:"ownerId" gorm:"size:26;index;not null"`
	Slug              string          `bson:"slug" json:"slug" gorm:"size:200;index"`
	Title             string          `bson:"title" json:"title" gorm:"size:150;not null"`
	Description       string          `bson:"description" json:"description" gorm:"type:text;not null"`
	TransactionType   TransactionType `bson:"transaction_type" json:"transactionType" gorm:"size:8;index;not null"`
	PropertyType      PropertyType    `bson:"property_type" json:"propertyType" gorm:"size:16;index;not null"`
	Price             float64         `bson:"price" json:"price" gorm:"not null"`
	District          string          `bson:"district" json:"district" gorm:"size:80;index;not null"`
	City              string          `bson:"city" json:"city" gorm:"size:80;index;not null"`
	Address           string          `bson:"address" json:"address" gorm:"not null"`
	Bedrooms          int             `bson:"bedrooms" json:"bedrooms"`
	Bathrooms         int             `bson:"bathrooms" json:"bathrooms"`
	Size              string          `bson:"size" json:"size" gorm:"size:50"`
	ContactPhone      string          `bson:"contact_phone" json:"contactPhone" gorm:"size:30;not null"`
	ContactWhatsapp   string          `bson:"contact_whatsapp" json:"contactWhatsapp" gorm:"size:30"`
	AvailabilityStart *time.Time      `bson:"availability_start,omitempty" json:"availabilityStart,omitempty"`
	AvailabilityEnd   *time.Time      `bson:"availability_end,omitempty" json:"availabilityEnd,omitempty"`
	Status            ListingStatus   `bson:"status" json:"status" gorm:"size:16;index;not null"`
	RejectionReason   *string         `bson:"rejection_reason" json:"rejectionReason"`
	ClosedAt          *time.Time      `bson:"closed_at" json:"closedAt"`
	Version           int64           `bson:"version" json:"version" gorm:"not null;default:1"`
	CreatedAt         time.Time       `bson:"created_at" json:"createdAt" gorm:"index"`
	UpdatedAt         time.Time       `bson:"updated_at" json:"updatedAt" gorm:"autoUpdateTime:false"`

	Photos []ListingPhoto `bson:"-" json:"photos" gorm:"-"`
}

func (l *Listing) IsPublic() bool {
	return l.Status == ListingStatusApproved
}

type ListingPhoto struct {
	ID        string    `bson:"_id" json:"id" gorm:"primaryKey;size:26"`
	ListingID string    `bson:"listing_id" json:"listingId" gorm:"size:26;index;not null"`
	Locator   string    `bson:"locator" json:"-" gorm:"not null"`
	URL       string    `bson:"url" json:"url" gorm:"not null"`
	SortOrder int       `bson:"sort_order" json:"sortOrder" gorm:"not null"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// ListingSlug builds the public slug for a listing title. The id suffix keeps
// slugs unique across listings sharing a title.
func ListingSlug(title, id string) string {
	base := slug.Make(title)
	suffix := strings.ToLower(id)
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

type CreateListingRequest struct {
	Title             string          `json:"title" validate:"required,max=150"`
	Description       string          `json:"description" validate:"required"`
	TransactionType   TransactionType `json:"transactionType" validate:"required,oneof=RENT SALE"`
	PropertyType      PropertyType    `json:"propertyType" validate:"required,oneof=HOUSE ANNEX ROOM"`
	Price             float64         `json:"price" validate:"required,gt=0"`
	District          string          `json:"district" validate:"required,max=80"`
	City              string          `json:"city" validate:"required,max=80"`
	Address           string          `json:"address" validate:"required,max=255"`
	Bedrooms          int             `json:"bedrooms" validate:"min=0,max=100"`
	Bathrooms         int             `json:"bathrooms" validate:"min=0,max=100"`
	Size              string          `json:"size" validate:"max=50"`
	ContactPhone      string          `json:"contactPhone" validate:"required,lkphone"`
	ContactWhatsapp   string          `json:"contactWhatsapp" validate:"omitempty,lkphone"`
	AvailabilityStart *time.Time      `json:"availabilityStart"`
	AvailabilityEnd   *time.Time      `json:"availabilityEnd"`
}

// UpdateListingRequest carries a partial edit. Nil fields are left untouched.
type UpdateListingRequest struct {
	Title             *string          `json:"title" validate:"omitempty,min=1,max=150"`
	Description       *string          `json:"description" validate:"omitempty,min=1"`
	TransactionType   *TransactionType `json:"transactionType" validate:"omitempty,oneof=RENT SALE"`
	PropertyType      *PropertyType    `json:"propertyType" validate:"omitempty,oneof=HOUSE ANNEX ROOM"`
	Price             *float64         `json:"price" validate:"omitempty,gt=0"`
	District          *string          `json:"district" validate:"omitempty,min=1,max=80"`
	City              *string          `json:"city" validate:"omitempty,min=1,max=80"`
	Address           *string          `json:"address" validate:"omitempty,min=1,max=255"`
	Bedrooms          *int             `json:"bedrooms" validate:"omitempty,min=0,max=100"`
	Bathrooms         *int             `json:"bathrooms" validate:"omitempty,min=0,max=100"`
	Size              *string          `json:"size" validate:"omitempty,max=50"`
	ContactPhone      *string          `json:"contactPhone" validate:"omitempty,lkphone"`
	ContactWhatsapp   *string          `json:"contactWhatsapp" validate:"omitempty,lkphone"`
	AvailabilityStart *time.Time       `json:"availabilityStart"`
	AvailabilityEnd   *time.Time       `json:"availabilityEnd"`
}

func (r *UpdateListingRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.TransactionType == nil &&
		r.PropertyType == nil && r.Price == nil && r.District == nil && r.City == nil &&
		r.Address == nil && r.Bedrooms == nil && r.Bathrooms == nil && r.Size == nil &&
		r.ContactPhone == nil && r.ContactWhatsapp == nil &&
		r.AvailabilityStart == nil && r.AvailabilityEnd == nil
}

// Apply copies the supplied fields onto l.
func (r *UpdateListingRequest) Apply(l *Listing) {
	if r.Title != nil {
		l.Title = strings.TrimSpace(*r.Title)
		l.Slug = ListingSlug(l.Title, l.ID)
	}
	if r.Description != nil {
		l.Description = *r.Description
	}
	if r.TransactionType != nil {
		l.TransactionType = *r.TransactionType
	}
	if r.PropertyType != nil {
		l.PropertyType = *r.PropertyType
	}
	if r.Price != nil {
		l.Price = *r.Price
	}
	if r.District != nil {
		l.District = strings.TrimSpace(*r.District)
	}
	if r.City != nil {
		l.City = strings.TrimSpace(*r.City)
	}
	if r.Address != nil {
		l.Address = *r.Address
	}
	if r.Bedrooms != nil {
		l.Bedrooms = *r.Bedrooms
	}
	if r.Bathrooms != nil {
		l.Bathrooms = *r.Bathrooms
	}
	if r.Size != nil {
		l.Size = *r.Size
	}
	if r.ContactPhone != nil {
		l.ContactPhone = *r.ContactPhone
	}
	if r.ContactWhatsapp != nil {
		l.ContactWhatsapp = *r.ContactWhatsapp
	}
	if r.AvailabilityStart != nil {
		l.AvailabilityStart = r.AvailabilityStart
	}
	if r.AvailabilityEnd != nil {
		l.AvailabilityEnd = r.AvailabilityEnd
	}
}

// ListingsSummary is the seller dashboard view of their own listings.
type ListingsSummary struct {
	Total    int64                   `json:"total"`
	ByStatus map[ListingStatus]int64 `json:"byStatus"`
}
