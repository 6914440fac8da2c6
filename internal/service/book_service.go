package service

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"library-catalog/internal/models"
)

// BookService owns catalog CRUD and attribute search. The collection handle
// is injected; the service keeps no other state.
type BookService struct {
	BookCol *mongo.Collection
}

func NewBookService(bookCol *mongo.Collection) *BookService {
	return &BookService{BookCol: bookCol}
}

func (s *BookService) Create(ctx context.Context, book models.Book) (*models.Book, error) {
	if !models.IsValidAvailability(string(book.BookAvailability)) {
		return nil, makeErr(ErrInvalidInput, "Invalid availability status")
	}
	if book.BookPrice < 0 {
		return nil, makeErr(ErrInvalidInput, "Price cannot be negative")
	}

	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := s.BookCol.InsertOne(ctx, book)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, makeErr(ErrConflict, "Book with this ID already exists")
		}
		return nil, err
	}
	return &book, nil
}

func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	return s.find(ctx, bson.M{})
}

func (s *BookService) ListAvailable(ctx context.Context) ([]models.Book, error) {
	return s.find(ctx, bson.M{"BookAvailability": models.Available})
}

func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := s.BookCol.FindOne(ctx, bson.M{"BookID": id}).Decode(&book)
	if err == mongo.ErrNoDocuments {
		return nil, makeErr(ErrNotFound, "Book not found")
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Update merges the set fields of the patch in a fixed order and returns the
// updated record. An empty patch is rejected before any store round trip.
func (s *BookService) Update(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error) {
	if patch.IsEmpty() {
		return nil, makeErr(ErrInvalidInput, "No update fields provided")
	}

	set := bson.D{}
	if patch.BookTitle != nil {
		set = append(set, bson.E{Key: "BookTitle", Value: *patch.BookTitle})
	}
	if patch.BookAuthor != nil {
		set = append(set, bson.E{Key: "BookAuthor", Value: *patch.BookAuthor})
	}
	if patch.BookPrice != nil {
		if *patch.BookPrice < 0 {
			return nil, makeErr(ErrInvalidInput, "Price cannot be negative")
		}
		set = append(set, bson.E{Key: "BookPrice", Value: *patch.BookPrice})
	}
	if patch.BookAvailability != nil {
		if !models.IsValidAvailability(*patch.BookAvailability) {
			return nil, makeErr(ErrInvalidInput, "Invalid availability status")
		}
		set = append(set, bson.E{Key: "BookAvailability", Value: *patch.BookAvailability})
	}
	set = append(set, bson.E{Key: "updatedAt", Value: time.Now()})

	result, err := s.BookCol.UpdateOne(ctx, bson.M{"BookID": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, makeErr(ErrNotFound, "Book not found")
	}

	return s.Get(ctx, id)
}

// Delete is unconditional: an outstanding Active borrow does not block it.
// ReturnBorrow tolerates the dangling reference.
func (s *BookService) Delete(ctx context.Context, id string) error {
	result, err := s.BookCol.DeleteOne(ctx, bson.M{"BookID": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return makeErr(ErrNotFound, "Book not found")
	}
	return nil
}

// Search matches a single allow-listed attribute. Price is an exact numeric
// match; text attributes match case-insensitive substrings with the value
// quoted, so user input never acts as a pattern.
func (s *BookService) Search(ctx context.Context, attribute, value string) ([]models.Book, error) {
	if attribute == "" || value == "" {
		return nil, makeErr(ErrInvalidInput, "Both attribute and value are required")
	}
	if !models.SearchableAttributes[attribute] {
		return nil, makeErr(ErrInvalidInput, "Invalid search attribute")
	}

	filter := bson.M{}
	if attribute == "BookPrice" {
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, makeErr(ErrInvalidInput, "Price must be a valid number")
		}
		filter[attribute] = price
	} else {
		filter[attribute] = primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
	}

	return s.find(ctx, filter)
}

func (s *BookService) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Book, error) {
	cursor, err := s.BookCol.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books := []models.Book{}
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}
