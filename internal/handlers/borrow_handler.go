package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"library-catalog/internal/constants"
	"library-catalog/internal/models"
	"library-catalog/internal/service"
	"library-catalog/internal/utils"
	"library-catalog/internal/validation"
)

type BorrowHandler struct {
	Service     *service.BorrowService
	Validator   *validation.Validator
	AuditLogger utils.Logger
}

type CreateBorrowRequest struct {
	BookID         string `json:"bookId" validate:"required"`
	BorrowFromDate string `json:"borrowFromDate" validate:"required"`
	BorrowToDate   string `json:"borrowToDate" validate:"required"`
	BorrowerName   string `json:"borrowerName" validate:"required"`
	BorrowerPhone  string `json:"borrowerPhone" validate:"required"`
}

// POST /borrows
func (h *BorrowHandler) CreateBorrow(w http.ResponseWriter, r *http.Request) {
	var req CreateBorrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := h.Validator.Validate(req); err != nil {
		utils.JSONError(w, "All fields are required", http.StatusBadRequest)
		return
	}

	fromDate, err := parseDate(req.BorrowFromDate)
	if err != nil {
		utils.JSONError(w, "Invalid date format", http.StatusBadRequest)
		return
	}
	toDate, err := parseDate(req.BorrowToDate)
	if err != nil {
		utils.JSONError(w, "Invalid date format", http.StatusBadRequest)
		return
	}

	result, err := h.Service.Create(r.Context(), req.BookID, fromDate, toDate,
		strings.TrimSpace(req.BorrowerName), strings.TrimSpace(req.BorrowerPhone))
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(context.Background(), models.BorrowEntity, constants.Borrow, result.Borrow)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message": "Book borrowed successfully",
		"borrow":  result.Borrow,
		"book":    result.Book,
	})
}

// GET /borrows
func (h *BorrowHandler) GetActiveBorrows(w http.ResponseWriter, r *http.Request) {
	borrows, err := h.Service.ListActive(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(borrows)
}

// GET /borrows/phone/{phone}
func (h *BorrowHandler) GetBorrowsByPhone(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]

	borrows, err := h.Service.ListByPhone(r.Context(), phone)
	if err != nil {
		serviceError(w, err)
		return
	}
	json.NewEncoder(w).Encode(borrows)
}

// PUT /borrows/{id}/return
func (h *BorrowHandler) ReturnBorrow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	borrow, err := h.Service.Return(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}

	h.AuditLogger.Log(context.Background(), models.BorrowEntity, constants.Return, borrow)

	json.NewEncoder(w).Encode(map[string]any{
		"message": "Book returned successfully",
		"borrow":  borrow,
	})
}

// GET /borrows/overdue
func (h *BorrowHandler) GetOverdueBorrows(w http.ResponseWriter, r *http.Request) {
	overdue, err := h.Service.SweepOverdue(r.Context(), time.Now())
	if err != nil {
		serviceError(w, err)
		return
	}

	if len(overdue) > 0 {
		h.AuditLogger.Log(context.Background(), models.BorrowEntity, constants.SweepOverdue, len(overdue))
	}

	json.NewEncoder(w).Encode(overdue)
}
