package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bookmodel "lending-library/internal/domains/book/model"
	"lending-library/internal/domains/borrow/model"
	"lending-library/internal/domains/borrow/service"
	membermodel "lending-library/internal/domains/member/model"
	"lending-library/internal/shared/response"
)

type BorrowHandler struct {
	svc service.ServiceInterface
}

func NewBorrowHandler(svc service.ServiceInterface) *BorrowHandler {
	return &BorrowHandler{svc: svc}
}

// BorrowBook handles POST /borrow/:memberCode/:bookCode
func (h *BorrowHandler) BorrowBook(c *gin.Context) {
	memberCode := c.Param("memberCode")
	bookCode := c.Param("bookCode")

	rec, err := h.svc.BorrowBook(c.Request.Context(), memberCode, bookCode)
	if err != nil {
		switch {
		case membermodel.IsNotFoundError(err):
			response.NotFound(c, "Member not found")
		case bookmodel.IsNotFoundError(err):
			response.NotFound(c, "Book not found")
		case errors.Is(err, model.ErrMemberNotEligible):
			response.BadRequest(c, "Member cannot borrow more books")
		case bookmodel.IsOutOfStockError(err):
			response.BadRequest(c, "Book is out of stock")
		default:
			response.InternalServerError(c, "Failed to borrow book")
		}
		return
	}

	response.Success(c, http.StatusCreated, rec)
}

// ReturnBook handles POST /return/:borrowCode
func (h *BorrowHandler) ReturnBook(c *gin.Context) {
	borrowCode := c.Param("borrowCode")

	rec, err := h.svc.ReturnBook(c.Request.Context(), borrowCode)
	if err != nil {
		switch {
		case model.IsNotFoundError(err):
			response.NotFound(c, "Borrow record not found")
		case errors.Is(err, model.ErrAlreadyReturned):
			response.BadRequest(c, "Book has already been returned")
		case model.IsConsistencyError(err):
			response.ErrorResponse(c, http.StatusInternalServerError, "CONSISTENCY_FAULT", "Return committed but stock not restored")
		default:
			response.InternalServerError(c, "Failed to return book")
		}
		return
	}

	response.Success(c, http.StatusOK, rec)
}

// ListMemberBorrows handles GET /members/:code/borrows
func (h *BorrowHandler) ListMemberBorrows(c *gin.Context) {
	memberCode := c.Param("code")

	records, err := h.svc.ListMemberBorrows(c.Request.Context(), memberCode)
	if err != nil {
		if membermodel.IsNotFoundError(err) {
			response.NotFound(c, "Member not found")
			return
		}
		response.InternalServerError(c, "Failed to list borrow records")
		return
	}

	response.Success(c, http.StatusOK, records)
}
