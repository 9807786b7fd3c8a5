package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lending-library/internal/domains/book/model"
	"lending-library/internal/domains/book/service"
	"lending-library/internal/shared/response"
)

type BookHandler struct {
	svc service.ServiceInterface
}

func NewBookHandler(svc service.ServiceInterface) *BookHandler {
	return &BookHandler{svc: svc}
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.svc.ListBooks(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list books")
		return
	}

	response.Success(c, http.StatusOK, books)
}

// GetBook handles GET /books/:code
func (h *BookHandler) GetBook(c *gin.Context) {
	code := c.Param("code")

	book, err := h.svc.GetBookByCode(c.Request.Context(), code)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.NotFound(c, "Book not found")
			return
		}
		response.InternalServerError(c, "Failed to get book")
		return
	}

	response.Success(c, http.StatusOK, book)
}

// CreateBook handles POST /books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book payload", err)
		return
	}

	book, err := h.svc.CreateBook(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrBookCodeExists) {
			response.Conflict(c, "Book code already exists")
			return
		}
		response.InternalServerError(c, "Failed to create book")
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// UpdateBook handles PUT /books/:code
func (h *BookHandler) UpdateBook(c *gin.Context) {
	code := c.Param("code")

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid book payload", err)
		return
	}

	book, err := h.svc.UpdateBook(c.Request.Context(), code, req)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.NotFound(c, "Book not found")
			return
		}
		response.InternalServerError(c, "Failed to update book")
		return
	}

	response.Success(c, http.StatusOK, book)
}

// DeleteBook handles DELETE /books/:code
func (h *BookHandler) DeleteBook(c *gin.Context) {
	code := c.Param("code")

	if err := h.svc.DeleteBook(c.Request.Context(), code); err != nil {
		switch {
		case model.IsNotFoundError(err):
			response.NotFound(c, "Book not found")
		case errors.Is(err, model.ErrBookHasActiveLoans):
			response.Conflict(c, "Book still has active loans")
		default:
			response.InternalServerError(c, "Failed to delete book")
		}
		return
	}

	response.Success(c, http.StatusOK, nil)
}
