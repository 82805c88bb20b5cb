package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type OpenRaffleRequest struct {
	BookID           uint    `json:"book_id"`
	ParticipantLimit int     `json:"participant_limit"`
	Price            float64 `json:"price"`
}

func (req *OpenRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BookID, validation.Required),
		validation.Field(&req.ParticipantLimit, validation.Required, validation.Min(1)),
		validation.Field(&req.Price, validation.Min(0.0)),
	)
}

type UpdateRaffleRequest struct {
	ParticipantLimit int     `json:"participant_limit"`
	Price            float64 `json:"price"`
}

func (req *UpdateRaffleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ParticipantLimit, validation.Required, validation.Min(1)),
		validation.Field(&req.Price, validation.Min(0.0)),
	)
}
