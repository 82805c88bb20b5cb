package response

import "github.com/dskf/bookraffle-api/internal/domain"

type TicketValidityResponse struct {
	Ticket  domain.Ticket `json:"ticket"`
	IsValid bool          `json:"is_valid"`
}
