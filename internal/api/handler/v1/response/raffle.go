package response

import "github.com/dskf/bookraffle-api/internal/domain"

// CloseRaffleResponse carries the closed raffle and the drawn winner.
// WinningTicket is null when the raffle closed without entries.
type CloseRaffleResponse struct {
	Raffle        domain.Raffle  `json:"raffle"`
	WinningTicket *domain.Ticket `json:"winning_ticket"`
}
