package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateListingRequest {
	return CreateListingRequest{
		Title:           "Two bedroom annex in Kandy",
		Description:     "Quiet annex close to the lake",
		TransactionType: TransactionRent,
		PropertyType:    PropertyAnnex,
		Price:           45000,
		District:        "Kandy",
		City:            "Peradeniya",
		Address:         "12 Temple Road",
		Bedrooms:        2,
		Bathrooms:       1,
		ContactPhone:    "+94771234567",
	}
}

func TestCreateListingRequestValidation(t *testing.T) {
	req := validCreateRequest()
	require.NoError(t, Validate.Struct(req))

	req.Title = ""
	assert.Error(t, Validate.Struct(req))

	req = validCreateRequest()
	req.PropertyType = "CASTLE"
	assert.Error(t, Validate.Struct(req))

	req = validCreateRequest()
	req.Price = 0
	assert.Error(t, Validate.Struct(req))
}

func TestAvailabilityWindow(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	req := validCreateRequest()
	req.AvailabilityStart = &start
	req.AvailabilityEnd = &end
	assert.Error(t, Validate.Struct(req))

	later := start.AddDate(0, 6, 0)
	req.AvailabilityEnd = &later
	assert.NoError(t, Validate.Struct(req))
}

func TestUpdateListingRequestApply(t *testing.T) {
	l := &Listing{ID: "01HZX3Q4S5T6V7W8X9Y0Z1A2B3", Title: "Old", Price: 10, Bedrooms: 1}
	title := "  Sea view house  "
	beds := 4
	req := UpdateListingRequest{Title: &title, Bedrooms: &beds}

	require.False(t, req.Empty())
	req.Apply(l)

	assert.Equal(t, "Sea view house", l.Title)
	assert.Equal(t, "sea-view-house-y0z1a2b3", l.Slug)
	assert.Equal(t, 4, l.Bedrooms)
	assert.Equal(t, float64(10), l.Price)
	assert.True(t, (&UpdateListingRequest{}).Empty())
}

func TestParseListingStatus(t *testing.T) {
	st, err := ParseListingStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ListingStatusApproved, st)

	_, err = ParseListingStatus("gone")
	assert.Error(t, err)
}

func TestContactPhoneRule(t *testing.T) {
	for phone, ok := range map[string]bool{
		"+94771234567":  true,
		"077 123 4567":  true,
		"011-2345678":   true,
		"0771234":       false,
		"+4477123456":   false,
		"call me maybe": false,
	} {
		req := validCreateRequest()
		req.ContactPhone = phone
		assert.Equal(t, ok, Validate.Struct(req) == nil, phone)
	}

	bad := "12345"
	assert.Error(t, Validate.Struct(UpdateListingRequest{ContactWhatsapp: &bad}))
}
