package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dskf/bookraffle-api/internal/domain"
)

type ReportRaffleRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Raffle, error)
	FindTickets(ctx context.Context, raffleID uint) ([]domain.Ticket, error)
}

type ReportUserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type ReportBookRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Book, error)
}

// ReportService renders raffle results as an xlsx workbook.
type ReportService struct {
	raffles ReportRaffleRepository
	users   ReportUserRepository
	books   ReportBookRepository
}

func NewReportService(raffles ReportRaffleRepository, users ReportUserRepository, books ReportBookRepository) *ReportService {
	return &ReportService{
		raffles: raffles,
		users:   users,
		books:   books,
	}
}

func (s *ReportService) BuildRaffleReport(ctx context.Context, raffleID uint) (*bytes.Buffer, error) {
	raffle, err := s.raffles.FindByID(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.raffles.FindByID -> %w", err)
	}

	tickets, err := s.raffles.FindTickets(ctx, raffleID)
	if err != nil {
		return nil, fmt.Errorf("s.raffles.FindTickets -> %w", err)
	}

	book, err := s.books.FindByID(ctx, raffle.BookID)
	if err != nil {
		return nil, fmt.Errorf("s.books.FindByID -> %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Raffle Results"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Raffle")
	f.SetCellValue(sheet, "B1", raffle.ID)
	f.SetCellValue(sheet, "A2", "Book")
	f.SetCellValue(sheet, "B2", book.Title)
	f.SetCellValue(sheet, "A3", "Participant limit")
	f.SetCellValue(sheet, "B3", raffle.ParticipantLimit)
	f.SetCellValue(sheet, "A4", "Ticket price")
	f.SetCellValue(sheet, "B4", raffle.Price)
	f.SetCellValue(sheet, "A5", "Status")
	f.SetCellValue(sheet, "B5", raffleStatus(raffle))

	header := []string{"Ticket Number", "Holder", "Email", "Cancelled", "Winner"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		f.SetCellValue(sheet, cell, h)
	}

	row := 8
	for _, ticket := range tickets {
		holder := ""
		email := ""
		if user, err := s.users.FindByID(ctx, ticket.UserID); err == nil {
			holder = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
			email = user.EmailAddress
		}

		values := []interface{}{ticket.UniqueNumber, holder, email, ticket.IsCancelled, ticket.IsWinningTicket}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("f.WriteToBuffer -> %w", err)
	}

	return buf, nil
}

func raffleStatus(r domain.Raffle) string {
	switch {
	case r.IsClosed:
		return "closed"
	case r.IsActive:
		return "active"
	default:
		return "inactive"
	}
}
