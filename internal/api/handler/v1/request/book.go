package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateBookRequest struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Publisher     string `json:"publisher"`
	YearPublished int    `json:"year_published"`
	Edition       int    `json:"edition"`
	AuthorIDs     []uint `json:"author_ids"`
	CategoryIDs   []uint `json:"category_ids"`
}

func (req *CreateBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&req.YearPublished, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&req.Edition, validation.Min(0)),
	)
}

type UpdateBookRequest struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Publisher     string `json:"publisher"`
	YearPublished int    `json:"year_published"`
	Edition       int    `json:"edition"`
}

func (req *UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 256)),
		validation.Field(&req.YearPublished, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&req.Edition, validation.Min(0)),
	)
}
