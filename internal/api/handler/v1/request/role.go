package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dskf/bookraffle-api/internal/domain"
)

type CreateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Permissions int    `json:"permissions"`
}

func (req *CreateRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 64)),
		validation.Field(&req.Permissions, validation.Min(0)),
	)
}

type UpdateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 64)),
	)
}

type PermissionRequest struct {
	Permission int `json:"permission"`
}

func (req *PermissionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Permission, validation.Required, validation.In(
			domain.PermissionVisit,
			domain.PermissionMember,
			domain.PermissionModerate,
			domain.PermissionAdmin,
		)),
	)
}
