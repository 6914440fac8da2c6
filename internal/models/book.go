package models

import "time"

type Availability string

const (
	Available    Availability = "Available"
	Borrowed     Availability = "Borrowed"
	NotAvailable Availability = "Not Available"
	Reserved     Availability = "Reserved"

	BookEntity = "book"
)

// Book keys match the deployed schema exactly; the browser client and the
// search attribute names depend on them.
type Book struct {
	BookID           string       `bson:"BookID" json:"BookID"`
	BookTitle        string       `bson:"BookTitle" json:"BookTitle"`
	BookAuthor       string       `bson:"BookAuthor" json:"BookAuthor"`
	BookPrice        float64      `bson:"BookPrice" json:"BookPrice"`
	BookAvailability Availability `bson:"BookAvailability" json:"BookAvailability"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}

var ValidAvailabilities = map[string]bool{
	string(Available):    true,
	string(Borrowed):     true,
	string(NotAvailable): true,
	string(Reserved):     true,
}

func IsValidAvailability(status string) bool {
	return ValidAvailabilities[status]
}

// BookPatch is the whitelisted partial update for a Book. Nil fields are
// left untouched; set fields are merged in a fixed order.
type BookPatch struct {
	BookTitle        *string  `json:"BookTitle"`
	BookAuthor       *string  `json:"BookAuthor"`
	BookPrice        *float64 `json:"BookPrice"`
	BookAvailability *string  `json:"BookAvailability"`
}

func (p BookPatch) IsEmpty() bool {
	return p.BookTitle == nil && p.BookAuthor == nil && p.BookPrice == nil && p.BookAvailability == nil
}

// SearchableAttributes is the allow-list for attribute search; values are
// the stored field names.
var SearchableAttributes = map[string]bool{
	"BookID":           true,
	"BookTitle":        true,
	"BookAuthor":       true,
	"BookAvailability": true,
	"BookPrice":        true,
}

// BookSummary is the trimmed book shape echoed on a successful borrow.
type BookSummary struct {
	BookID     string `json:"BookID"`
	BookTitle  string `json:"BookTitle"`
	BookAuthor string `json:"BookAuthor"`
}
