// Package search composes listing queries into a store neutral predicate list.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"ceylonhomes-api-io/api/pkg/models"
)

type Field string

const (
	FieldStatus          Field = "status"
	FieldOwner           Field = "owner_id"
	FieldDistrict        Field = "district"
	FieldCity            Field = "city"
	FieldTransactionType Field = "transaction_type"
	FieldPropertyType    Field = "property_type"
	FieldPrice           Field = "price"
	FieldBedrooms        Field = "bedrooms"
	FieldBathrooms       Field = "bathrooms"
	FieldTitle           Field = "title"
	// FieldOwnerText matches the owner's name or email.
	FieldOwnerText Field = "owner_text"
)

type Op string

const (
	OpEq       Op = "eq"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpContains Op = "contains"
)

type Predicate struct {
	Field Field
	Op    Op
	Value any
}

type Sort struct {
	Field Field
	Desc  bool
}

// Query is a conjunction of predicates plus paging. Stores translate it.
type Query struct {
	Predicates []Predicate
	Sort       Sort
	Limit      int
	Skip       int
}

// Criteria is what a caller may filter by. Zero values mean no constraint.
type Criteria struct {
	Status          models.ListingStatus
	OwnerID         string
	District        string
	City            string
	TransactionType models.TransactionType
	PropertyType    models.PropertyType
	MinPrice        *float64
	MaxPrice        *float64
	MinBedrooms     *int
	MinBathrooms    *int
	Title           string
	Owner           string
}

type Page struct {
	Limit int
	Skip  int
	Sort  string
}

// Public restricts the query to approved listings whatever the caller asked for.
func Public(c Criteria, p Page) Query {
	c.Status = models.ListingStatusApproved
	c.Title = ""
	c.Owner = ""
	return build(c, p)
}

// Admin leaves every criterion as supplied.
func Admin(c Criteria, p Page) Query {
	return build(c, p)
}

// Owner scopes the query to one seller's listings in any status.
func Owner(ownerID string, c Criteria, p Page) Query {
	c.OwnerID = ownerID
	c.Owner = ""
	return build(c, p)
}

func build(c Criteria, p Page) Query {
	var preds []Predicate
	eq := func(f Field, v string) {
		if v = strings.TrimSpace(v); v != "" {
			preds = append(preds, Predicate{Field: f, Op: OpEq, Value: v})
		}
	}
	eq(FieldStatus, string(c.Status))
	eq(FieldOwner, c.OwnerID)
	eq(FieldDistrict, c.District)
	eq(FieldCity, c.City)
	eq(FieldTransactionType, string(c.TransactionType))
	eq(FieldPropertyType, string(c.PropertyType))

	if c.MinPrice != nil {
		preds = append(preds, Predicate{Field: FieldPrice, Op: OpGte, Value: *c.MinPrice})
	}
	if c.MaxPrice != nil {
		preds = append(preds, Predicate{Field: FieldPrice, Op: OpLte, Value: *c.MaxPrice})
	}
	if c.MinBedrooms != nil {
		preds = append(preds, Predicate{Field: FieldBedrooms, Op: OpGte, Value: *c.MinBedrooms})
	}
	if c.MinBathrooms != nil {
		preds = append(preds, Predicate{Field: FieldBathrooms, Op: OpGte, Value: *c.MinBathrooms})
	}
	if t := strings.TrimSpace(c.Title); t != "" {
		preds = append(preds, Predicate{Field: FieldTitle, Op: OpContains, Value: strings.ToLower(t)})
	}
	if o := strings.TrimSpace(c.Owner); o != "" {
		preds = append(preds, Predicate{Field: FieldOwnerText, Op: OpContains, Value: strings.ToLower(o)})
	}

	return Query{Predicates: preds, Sort: ParseSort(p.Sort), Limit: p.Limit, Skip: p.Skip}
}

// ParseSort maps "<field>_asc|_desc" onto a sortable field. Unknown keys fall
// back to newest first.
func ParseSort(sort string) Sort {
	var field Field
	switch strings.TrimSuffix(strings.TrimSuffix(sort, "_asc"), "_desc") {
	case "created_at":
		field = "created_at"
	case "updated_at":
		field = "updated_at"
	case "price":
		field = FieldPrice
	case "bedrooms":
		field = FieldBedrooms
	case "bathrooms":
		field = FieldBathrooms
	default:
		return Sort{Field: "created_at", Desc: true}
	}
	return Sort{Field: field, Desc: !strings.HasSuffix(sort, "_asc")}
}

// ParseCriteria reads criteria from query parameters. Malformed values are
// ignored rather than rejected.
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		OwnerID:  q.Get("owner_id"),
		District: q.Get("district"),
		City:     q.Get("city"),
		Title:    firstNonEmpty(q.Get("title"), q.Get("q")),
		Owner:    q.Get("owner"),
	}
	if st, err := models.ParseListingStatus(q.Get("status")); err == nil {
		c.Status = st
	}
	if tt, err := models.ParseTransactionType(firstNonEmpty(q.Get("transaction_type"), q.Get("rent_or_sale"))); err == nil {
		c.TransactionType = tt
	}
	if pt, err := models.ParsePropertyType(q.Get("property_type")); err == nil {
		c.PropertyType = pt
	}
	c.MinPrice = parseFloat(q.Get("min_price"))
	c.MaxPrice = parseFloat(q.Get("max_price"))
	c.MinBedrooms = parseInt(q.Get("min_bedrooms"))
	c.MinBathrooms = parseInt(q.Get("min_bathrooms"))
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	return nil
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	return nil
}

// Key is a stable cache key for q.
func (q Query) Key() string {
	var b strings.Builder
	for _, p := range q.Predicates {
		b.WriteString(string(p.Field))
		b.WriteByte(':')
		b.WriteString(string(p.Op))
		b.WriteByte(':')
		switch v := p.Value.(type) {
		case string:
			b.WriteString(v)
		case float64:
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		case int:
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteByte('|')
	}
	b.WriteString("sort:")
	b.WriteString(string(q.Sort.Field))
	if q.Sort.Desc {
		b.WriteString(":desc")
	}
	b.WriteString("|limit:" + strconv.Itoa(q.Limit) + "|skip:" + strconv.Itoa(q.Skip))
	return b.String()
}

// value returns the first predicate value for f and op, if any.
func (q Query) value(f Field, op Op) (any, bool) {
	for _, p := range q.Predicates {
		if p.Field == f && p.Op == op {
			return p.Value, true
		}
	}
	return nil, false
}
