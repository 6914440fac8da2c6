package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"library-catalog/internal/handlers"
	"library-catalog/internal/service"
	"library-catalog/internal/utils"
	"library-catalog/internal/validation"
)

func newBookRouter(svc *service.BookService) *mux.Router {
	handler := handlers.NewBookHandler(svc, validation.New(), utils.Logger{})

	router := mux.NewRouter()
	router.HandleFunc("/books", handler.AddBook).Methods("POST")
	router.HandleFunc("/books", handler.GetBooks).Methods("GET")
	router.HandleFunc("/books/available", handler.GetAvailableBooks).Methods("GET")
	router.HandleFunc("/books/search", handler.SearchBooks).Methods("GET")
	router.HandleFunc("/books/{id}", handler.GetBook).Methods("GET")
	router.HandleFunc("/books/{id}", handler.UpdateBook).Methods("PUT")
	router.HandleFunc("/books/{id}", handler.DeleteBook).Methods("DELETE")
	return router
}

func decodeMessage(t *testing.T, body *bytes.Buffer) string {
	t.Helper()
	var resp map[string]string
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return resp["message"]
}

func TestBookHandler_AddBook(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("invalid JSON payload", func(mt *mtest.T) {
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("missing required fields", func(mt *mtest.T) {
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader([]byte(`{"BookID":"B1"}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
	})

	mt.Run("round trip on create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		router := newBookRouter(service.NewBookService(mt.Coll))

		body := `{"BookID":"B1","BookTitle":"T","BookAuthor":"A","BookPrice":10,"BookAvailability":"Available"}`
		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status Created, got %v", w.Code)
		}

		var created map[string]any
		if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
			t.Fatalf("failed to decode created book: %v", err)
		}
		if created["BookID"] != "B1" || created["BookTitle"] != "T" ||
			created["BookAuthor"] != "A" || created["BookPrice"] != 10.0 ||
			created["BookAvailability"] != "Available" {
			t.Errorf("created book does not echo the request: %v", created)
		}
	})

	mt.Run("duplicate BookID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   1,
			Code:    11000,
			Message: "duplicate key error",
		}))
		router := newBookRouter(service.NewBookService(mt.Coll))

		body := `{"BookID":"B1","BookTitle":"T","BookAuthor":"A","BookPrice":10,"BookAvailability":"Available"}`
		req := httptest.NewRequest(http.MethodPost, "/books", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Book with this ID already exists" {
			t.Errorf("unexpected message: %q", msg)
		}
	})
}

func TestBookHandler_GetBook(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("book not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "LMS.Books", mtest.FirstBatch))
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodGet, "/books/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Book not found" {
			t.Errorf("unexpected message: %q", msg)
		}
	})

	mt.Run("book found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "LMS.Books", mtest.FirstBatch, bson.D{
			{Key: "BookID", Value: "B1"},
			{Key: "BookTitle", Value: "T"},
			{Key: "BookAuthor", Value: "A"},
			{Key: "BookPrice", Value: 10.0},
			{Key: "BookAvailability", Value: "Available"},
		}))
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodGet, "/books/B1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", w.Code)
		}
	})
}

func TestBookHandler_SearchBooks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("missing attribute and value", func(mt *mtest.T) {
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodGet, "/books/search", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Both attribute and value are required" {
			t.Errorf("unexpected message: %q", msg)
		}
	})

	mt.Run("non-numeric price value", func(mt *mtest.T) {
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodGet, "/books/search?attribute=BookPrice&value=abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Price must be a valid number" {
			t.Errorf("unexpected message: %q", msg)
		}
	})
}

func TestBookHandler_UpdateBook(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("empty patch", func(mt *mtest.T) {
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodPut, "/books/B1", bytes.NewReader([]byte(`{}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status BadRequest, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "No update fields provided" {
			t.Errorf("unexpected message: %q", msg)
		}
	})
}

func TestBookHandler_DeleteBook(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	if mt.Client != nil {
		defer mt.Client.Disconnect(context.Background())
	}

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodDelete, "/books/B1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", w.Code)
		}
		if msg := decodeMessage(t, w.Body); msg != "Book deleted successfully" {
			t.Errorf("unexpected message: %q", msg)
		}
	})

	mt.Run("absent book", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		router := newBookRouter(service.NewBookService(mt.Coll))

		req := httptest.NewRequest(http.MethodDelete, "/books/nope", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status NotFound, got %v", w.Code)
		}
	})
}
