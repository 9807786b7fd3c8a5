package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateBookRequest is the payload for adding a title to the catalog.
type CreateBookRequest struct {
	Code   string `json:"code" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Author string `json:"author" binding:"required"`
	Stock  int    `json:"stock"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code,
			validation.Required.Error("code is required"),
			validation.Length(3, 10),
		),
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Stock,
			validation.Min(0).Error("stock cannot be negative"),
		),
	)
}

// UpdateBookRequest carries partial catalog updates. Nil fields are left
// unchanged.
type UpdateBookRequest struct {
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
	Stock  *int    `json:"stock,omitempty"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Length(1, 255)),
		),
		validation.Field(&r.Author,
			validation.When(r.Author != nil, validation.Length(1, 255)),
		),
		validation.Field(&r.Stock,
			validation.When(r.Stock != nil, validation.Min(0).Error("stock cannot be negative")),
		),
	)
}
