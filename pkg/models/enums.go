package models

import (
	"fmt"
	"strings"
)

type ListingStatus string

const (
	ListingStatusPending   ListingStatus = "PENDING"
	ListingStatusApproved  ListingStatus = "APPROVED"
	ListingStatusRejected  ListingStatus = "REJECTED"
	ListingStatusSuspended ListingStatus = "SUSPENDED"
	ListingStatusSold      ListingStatus = "SOLD"
	ListingStatusRented    ListingStatus = "RENTED"
	ListingStatusArchived  ListingStatus = "ARCHIVED"
)

var ListingStatuses = []ListingStatus{
	ListingStatusPending,
	ListingStatusApproved,
	ListingStatusRejected,
	ListingStatusSuspended,
	ListingStatusSold,
	ListingStatusRented,
	ListingStatusArchived,
}

func ParseListingStatus(s string) (ListingStatus, error) {
	for _, st := range ListingStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid listing status: %q", s)
}

type TransactionType string

const (
	TransactionRent TransactionType = "RENT"
	TransactionSale TransactionType = "SALE"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToUpper(s) {
	case "RENT":
		return TransactionRent, nil
	case "SALE":
		return TransactionSale, nil
	}
	return "", fmt.Errorf("invalid transaction type: %q", s)
}

type PropertyType string

const (
	PropertyHouse PropertyType = "HOUSE"
	PropertyAnnex PropertyType = "ANNEX"
	PropertyRoom  PropertyType = "ROOM"
)

func ParsePropertyType(s string) (PropertyType, error) {
	switch strings.ToUpper(s) {
	case "HOUSE":
		return PropertyHouse, nil
	case "ANNEX":
		return PropertyAnnex, nil
	case "ROOM":
		return PropertyRoom, nil
	}
	return "", fmt.Errorf("invalid property type: %q", s)
}

type ApprovalActionType string

const (
	ApprovalApproved    ApprovalActionType = "APPROVED"
	ApprovalRejected    ApprovalActionType = "REJECTED"
	ApprovalSuspended   ApprovalActionType = "SUSPENDED"
	ApprovalUnsuspended ApprovalActionType = "UNSUSPENDED"
)

type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "OPEN"
	ReportStatusReviewed ReportStatus = "REVIEWED"
	ReportStatusClosed   ReportStatus = "CLOSED"
)

func ParseReportStatus(s string) (ReportStatus, error) {
	switch strings.ToUpper(s) {
	case "OPEN":
		return ReportStatusOpen, nil
	case "REVIEWED":
		return ReportStatusReviewed, nil
	case "CLOSED":
		return ReportStatusClosed, nil
	}
	return "", fmt.Errorf("invalid report status: %q", s)
}

type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(s) {
	case "USER":
		return RoleUser, nil
	case "SELLER":
		return RoleSeller, nil
	case "ADMIN":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}
