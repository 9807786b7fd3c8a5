package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateMemberRequest registers a member. Code is optional; when empty
// the next code in the member namespace (M001, M002, ...) is allocated.
type CreateMemberRequest struct {
	Code string `json:"code,omitempty"`
	Name string `json:"name" binding:"required"`
}

func (r CreateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.When(r.Code != "", validation.Length(3, 10)),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(3, 50),
		),
	)
}

// UpdateMemberRequest renames a member.
type UpdateMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

func (r UpdateMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(3, 50),
		),
	)
}
