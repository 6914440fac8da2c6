package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"library-catalog/internal/constants"
	"library-catalog/internal/models"
	"library-catalog/internal/service"
	"library-catalog/internal/utils"
	"library-catalog/internal/validation"
)

type BookHandler struct {
	Service     *service.BookService
	Validator   *validation.Validator
	AuditLogger utils.Logger
}

func NewBookHandler(svc *service.BookService, v *validation.Validator, logger utils.Logger) *BookHandler {
	return &BookHandler{
		Service:     svc,
		Validator:   v,
		AuditLogger: logger,
	}
}

type CreateBookRequest struct {
	BookID           string  `json:"BookID" validate:"required"`
	BookTitle        string  `json:"BookTitle" validate:"required"`
	BookAuthor       string  `json:"BookAuthor" validate:"required"`
	BookPrice        float64 `json:"BookPrice" validate:"gte=0"`
	BookAvailability string  `json:"BookAvailability" validate:"required,oneof=Available Borrowed 'Not Available' Reserved"`
}

// POST /books
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := h.Validator.Validate(req); err != nil {
		utils.JSONError(w, "Missing or invalid book fields", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	book, err := h.Service.Create(ctx, models.Book{
		BookID:           req.BookID,
		BookTitle:        req.BookTitle,
		BookAuthor:       req.BookAuthor,
		BookPrice:        req.BookPrice,
		BookAvailability: models.Availability(req.BookAvailability),
	})
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Create, book)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

// GET /books
func (h *BookHandler) GetBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	books, err := h.Service.List(ctx)
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(books)
}

// GET /books/available
func (h *BookHandler) GetAvailableBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	books, err := h.Service.ListAvailable(ctx)
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(books)
}

// GET /books/search?attribute=&value=
func (h *BookHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	attribute := r.URL.Query().Get("attribute")
	value := r.URL.Query().Get("value")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	books, err := h.Service.Search(ctx, attribute, value)
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(books)
}

// GET /books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	book, err := h.Service.Get(ctx, id)
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(book)
}

// PUT /books/{id}
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch models.BookPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.JSONError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	book, err := h.Service.Update(ctx, id, patch)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Update, book)

	json.NewEncoder(w).Encode(book)
}

// DELETE /books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, id); err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(ctx, models.BookEntity, constants.Delete, id)

	json.NewEncoder(w).Encode(map[string]string{"message": "Book deleted successfully"})
}
