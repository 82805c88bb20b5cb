package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateAuthorRequest struct {
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	Gender       string `json:"gender"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
	Nationality  string `json:"nationality"`
	Summary      string `json:"summary"`
}

func (req *CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.EmailAddress, is.Email),
	)
}
