package model

import "time"

type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Isbn          string    `json:"isbn"`
	Stock         int64     `json:"stock"`
	CoverImageURL string    `json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookFilter narrows the catalog listing. Search matches title, author and
// description case-insensitively.
type BookFilter struct {
	Search   string
	Category string
}

// CreateBookReq represents book creation payload
// swagger:model CreateBookReq
type CreateBookReq struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	Description   string `json:"description"`
	Category      string `json:"category" validate:"required"`
	Isbn          string `json:"isbn"`
	Stock         int64  `json:"stock" validate:"gte=0"`
	CoverImageURL string `json:"coverImageUrl"`
}

// UpdateBookReq is a partial update; nil pointers are left untouched.
type UpdateBookReq struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Isbn          *string `json:"isbn"`
	Stock         *int64  `json:"stock" validate:"omitempty,gte=0"`
	CoverImageURL *string `json:"coverImageUrl"`
}
