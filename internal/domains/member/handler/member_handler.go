package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lending-library/internal/domains/member/model"
	"lending-library/internal/domains/member/service"
	"lending-library/internal/shared/response"
)

type MemberHandler struct {
	svc service.ServiceInterface
}

func NewMemberHandler(svc service.ServiceInterface) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.svc.ListMembers(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list members")
		return
	}

	response.Success(c, http.StatusOK, members)
}

// GetMember handles GET /members/:code
func (h *MemberHandler) GetMember(c *gin.Context) {
	code := c.Param("code")

	member, err := h.svc.GetMemberByCode(c.Request.Context(), code)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.NotFound(c, "Member not found")
			return
		}
		response.InternalServerError(c, "Failed to get member")
		return
	}

	response.Success(c, http.StatusOK, member)
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req model.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid member payload", err)
		return
	}

	member, err := h.svc.CreateMember(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrMemberCodeExists) {
			response.Conflict(c, "Member code already exists")
			return
		}
		response.InternalServerError(c, "Failed to create member")
		return
	}

	response.Success(c, http.StatusCreated, member)
}

// UpdateMember handles PUT /members/:code
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	code := c.Param("code")

	var req model.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid member payload", err)
		return
	}

	member, err := h.svc.UpdateMember(c.Request.Context(), code, req)
	if err != nil {
		if model.IsNotFoundError(err) {
			response.NotFound(c, "Member not found")
			return
		}
		response.InternalServerError(c, "Failed to update member")
		return
	}

	response.Success(c, http.StatusOK, member)
}

// DeleteMember handles DELETE /members/:code
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	code := c.Param("code")

	if err := h.svc.DeleteMember(c.Request.Context(), code); err != nil {
		switch {
		case model.IsNotFoundError(err):
			response.NotFound(c, "Member not found")
		case errors.Is(err, model.ErrMemberHasActiveLoans):
			response.Conflict(c, "Member still has active loans")
		default:
			response.InternalServerError(c, "Failed to delete member")
		}
		return
	}

	response.Success(c, http.StatusOK, nil)
}
