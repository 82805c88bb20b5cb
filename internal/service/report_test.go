package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

type fakeReportUserRepo struct {
	users map[uint]domain.User
}

func (f *fakeReportUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestBuildRaffleReport(t *testing.T) {
	ctx := context.Background()

	repo := newFakeRaffleRepo()
	repo.balances[1] = 10
	books := &fakeBookRepo{books: map[uint]domain.Book{
		1: {ID: 1, Title: "The Raffle Book"},
	}}
	users := &fakeReportUserRepo{users: map[uint]domain.User{
		1: {ID: 1, FirstName: "Ada", LastName: "Reader", EmailAddress: "ada@example.com", AccountBalance: 10},
	}}

	raffle, err := repo.Create(ctx, domain.Raffle{BookID: 1, ParticipantLimit: 5, Price: 2, IsActive: true})
	require.NoError(t, err)
	ticket, err := repo.PurchaseTicket(ctx, raffle.ID, 1)
	require.NoError(t, err)

	svc := NewReportService(repo, users, books)

	buf, err := svc.BuildRaffleReport(ctx, raffle.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Raffle Results"
	require.Contains(t, f.GetSheetList(), sheet)

	bookCell, err := f.GetCellValue(sheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "The Raffle Book", bookCell)

	statusCell, err := f.GetCellValue(sheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "active", statusCell)

	numberCell, err := f.GetCellValue(sheet, "A8")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(ticket.UniqueNumber), numberCell)

	holderCell, err := f.GetCellValue(sheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, "Ada Reader", holderCell)
}

func TestBuildRaffleReport_UnknownRaffle(t *testing.T) {
	repo := newFakeRaffleRepo()
	svc := NewReportService(repo, &fakeReportUserRepo{users: map[uint]domain.User{}}, &fakeBookRepo{books: map[uint]domain.Book{}})

	_, err := svc.BuildRaffleReport(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRaffleNotFound)
}
