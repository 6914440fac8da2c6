package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BorrowStatus string

const (
	StatusActive   BorrowStatus = "Active"
	StatusReturned BorrowStatus = "Returned"
	StatusOverdue  BorrowStatus = "Overdue"

	BorrowEntity = "borrow"
)

// Borrow is a single lending transaction. BookId is a lookup key into the
// Books collection, not an owning reference; the book may be deleted while
// the borrow is still Active.
type Borrow struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID         string             `bson:"bookId" json:"bookId"`
	BorrowFromDate time.Time          `bson:"borrowFromDate" json:"borrowFromDate"`
	BorrowToDate   time.Time          `bson:"borrowToDate" json:"borrowToDate"`
	BorrowerName   string             `bson:"borrowerName" json:"borrowerName"`
	BorrowerPhone  string             `bson:"borrowerPhone" json:"borrowerPhone"`
	BorrowDate     time.Time          `bson:"borrowDate" json:"borrowDate"`
	ReturnDate     *time.Time         `bson:"returnDate" json:"returnDate"`
	Status         BorrowStatus       `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
