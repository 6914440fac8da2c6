package service

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"library-catalog/internal/models"
)

// BorrowService mediates the borrow/return lifecycle: the only place where
// book availability and borrow status change together.
type BorrowService struct {
	BookCol   *mongo.Collection
	BorrowCol *mongo.Collection
}

func NewBorrowService(bookCol, borrowCol *mongo.Collection) *BorrowService {
	return &BorrowService{BookCol: bookCol, BorrowCol: borrowCol}
}

// BorrowResult pairs the created borrow with a trimmed view of the book.
type BorrowResult struct {
	Borrow models.Borrow
	Book   models.BookSummary
}

// Create checks the preconditions in order (existence, availability, date
// sanity), then flips availability with a conditional write and records the
// borrow only if the flip landed. Two racing borrows both pass the read but
// only one conditional update modifies a document.
func (s *BorrowService) Create(ctx context.Context, bookID string, fromDate, toDate time.Time, borrowerName, borrowerPhone string) (*BorrowResult, error) {
	var book models.Book
	err := s.BookCol.FindOne(ctx, bson.M{"BookID": bookID}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, makeErr(ErrNotFound, "Book not found")
	}
	if err != nil {
		return nil, err
	}

	if book.BookAvailability != models.Available {
		return nil, makeErr(ErrInvalidState, "Book is not available for borrowing")
	}

	if !fromDate.Before(toDate) {
		return nil, makeErr(ErrInvalidInput, "Return date must be after borrow date")
	}

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if fromDate.Before(startOfToday) {
		return nil, makeErr(ErrInvalidInput, "Borrow date cannot be in the past")
	}

	// Test-and-set on availability: the filter only matches while the book
	// is still Available, so a concurrent borrow loses here, not later.
	result, err := s.BookCol.UpdateOne(ctx,
		bson.M{"BookID": bookID, "BookAvailability": models.Available},
		bson.M{"$set": bson.M{"BookAvailability": models.Borrowed, "updatedAt": now}},
	)
	if err != nil {
		return nil, err
	}
	if result.ModifiedCount == 0 {
		return nil, makeErr(ErrInvalidState, "Book is not available for borrowing")
	}

	borrow := models.Borrow{
		ID:             primitive.NewObjectID(),
		BookID:         bookID,
		BorrowFromDate: fromDate,
		BorrowToDate:   toDate,
		BorrowerName:   borrowerName,
		BorrowerPhone:  borrowerPhone,
		BorrowDate:     now,
		ReturnDate:     nil,
		Status:         models.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err = s.BorrowCol.InsertOne(ctx, borrow); err != nil {
		// Undo the flip so the book is not stranded as Borrowed with no
		// borrow record. Best effort; a failure here leaves the store
		// failure as the reported error either way.
		if _, revertErr := s.BookCol.UpdateOne(ctx,
			bson.M{"BookID": bookID, "BookAvailability": models.Borrowed},
			bson.M{"$set": bson.M{"BookAvailability": models.Available}},
		); revertErr != nil {
			log.Printf("failed to revert availability for book %s: %v", bookID, revertErr)
		}
		return nil, err
	}

	return &BorrowResult{
		Borrow: borrow,
		Book: models.BookSummary{
			BookID:     book.BookID,
			BookTitle:  book.BookTitle,
			BookAuthor: book.BookAuthor,
		},
	}, nil
}

// Return transitions an Active borrow to Returned and frees the book. The
// book lookup tolerates deletion: the borrow still closes when no book
// document matches.
func (s *BorrowService) Return(ctx context.Context, borrowID string) (*models.Borrow, error) {
	oid, err := primitive.ObjectIDFromHex(borrowID)
	if err != nil {
		return nil, makeErr(ErrInvalidInput, "Invalid borrow ID")
	}

	var borrow models.Borrow
	err = s.BorrowCol.FindOne(ctx, bson.M{"_id": oid}).Decode(&borrow)
	if err == mongo.ErrNoDocuments {
		return nil, makeErr(ErrNotFound, "Borrow record not found")
	}
	if err != nil {
		return nil, err
	}

	if borrow.Status != models.StatusActive {
		return nil, makeErr(ErrInvalidState, "Book has already been returned")
	}

	now := time.Now()
	_, err = s.BorrowCol.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"returnDate": now, "status": models.StatusReturned, "updatedAt": now}},
	)
	if err != nil {
		return nil, err
	}

	// The borrow is terminal from here; failing the request now would leave
	// no path that ever frees the book, since a retry hits "already
	// returned". A store error freeing the book is logged and the return
	// still succeeds, same as when the book was deleted.
	_, err = s.BookCol.UpdateOne(ctx,
		bson.M{"BookID": borrow.BookID},
		bson.M{"$set": bson.M{"BookAvailability": models.Available, "updatedAt": now}},
	)
	if err != nil {
		log.Printf("failed to free book %s on return: %v", borrow.BookID, err)
	}

	borrow.ReturnDate = &now
	borrow.Status = models.StatusReturned
	borrow.UpdatedAt = now
	return &borrow, nil
}

func (s *BorrowService) ListActive(ctx context.Context) ([]models.Borrow, error) {
	return s.find(ctx,
		bson.M{"status": models.StatusActive},
		options.Find().SetSort(bson.D{{Key: "borrowDate", Value: -1}}),
	)
}

func (s *BorrowService) ListByPhone(ctx context.Context, phone string) ([]models.Borrow, error) {
	return s.find(ctx,
		bson.M{"status": models.StatusActive, "borrowerPhone": phone},
		options.Find().SetSort(bson.D{{Key: "borrowDate", Value: -1}}),
	)
}

// SweepOverdue reclassifies every Active borrow whose due date has passed
// and returns the batch as it stood before the transition, due date
// ascending. Pull-based: it only runs when the overdue listing is requested.
func (s *BorrowService) SweepOverdue(ctx context.Context, now time.Time) ([]models.Borrow, error) {
	filter := bson.M{
		"status":       models.StatusActive,
		"borrowToDate": bson.M{"$lt": now},
	}

	overdue, err := s.find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "borrowToDate", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	if len(overdue) > 0 {
		// Pin the transition to the fetched snapshot so a borrow that
		// becomes due between the read and the write is left for the next
		// sweep; the returned batch and the transitioned set stay equal.
		ids := make([]primitive.ObjectID, 0, len(overdue))
		for _, b := range overdue {
			ids = append(ids, b.ID)
		}
		_, err = s.BorrowCol.UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": ids}},
			bson.M{"$set": bson.M{"status": models.StatusOverdue, "updatedAt": now}},
		)
		if err != nil {
			return nil, err
		}
	}

	return overdue, nil
}

func (s *BorrowService) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Borrow, error) {
	cursor, err := s.BorrowCol.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	borrows := []models.Borrow{}
	if err = cursor.All(ctx, &borrows); err != nil {
		return nil, err
	}
	return borrows, nil
}
