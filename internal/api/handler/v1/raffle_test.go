package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskf/bookraffle-api/internal/api/middleware"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/service"
)

type stubRaffleService struct {
	raffle      domain.Raffle
	ticket      domain.Ticket
	winner      *domain.Ticket
	err         error
	purchaseErr error
}

func (s *stubRaffleService) OpenRaffle(_ context.Context, _ domain.Raffle) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) GetRaffle(_ context.Context, _ uint) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) ListRaffles(_ context.Context) ([]domain.Raffle, error) {
	return []domain.Raffle{s.raffle}, s.err
}

func (s *stubRaffleService) UpdateRaffle(_ context.Context, _ uint, _ int, _ float64) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) ActivateRaffle(_ context.Context, _ uint) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) DeactivateRaffle(_ context.Context, _ uint) (domain.Raffle, error) {
	return s.raffle, s.err
}

func (s *stubRaffleService) CloseRaffle(_ context.Context, _ uint) (domain.Raffle, *domain.Ticket, error) {
	return s.raffle, s.winner, s.err
}

func (s *stubRaffleService) PurchaseTicket(_ context.Context, _, _ uint) (domain.Ticket, error) {
	return s.ticket, s.purchaseErr
}

func (s *stubRaffleService) GetRaffleTickets(_ context.Context, _ uint) ([]domain.Ticket, error) {
	return []domain.Ticket{s.ticket}, s.err
}

type stubUserService struct {
	user domain.User
	err  error
}

func (s *stubUserService) GetUser(_ context.Context, _ uint) (domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) ListUsers(_ context.Context) ([]domain.User, error) {
	return []domain.User{s.user}, s.err
}

func (s *stubUserService) UpdateUser(_ context.Context, user domain.User) (domain.User, error) {
	return user, s.err
}

func (s *stubUserService) UpdateProfileImage(_ context.Context, _ uint, _ string) error {
	return s.err
}

func (s *stubUserService) DeleteUser(_ context.Context, _ uint) error {
	return s.err
}

func (s *stubUserService) GetUserTickets(_ context.Context, _ uint) ([]domain.Ticket, error) {
	return nil, s.err
}

func (s *stubUserService) GetUserTasks(_ context.Context, _ uint) ([]domain.Task, error) {
	return nil, s.err
}

func newRaffleTestRouter(svc RaffleService, users UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handler := NewRaffleHandler(svc, users, nil)

	authed := router.Group("", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(1))
	})
	authed.POST("/raffles", handler.HandleOpenRaffle)
	authed.GET("/raffles/:raffleID", handler.HandleGetRaffle)
	authed.POST("/raffles/:raffleID/close", handler.HandleCloseRaffle)
	authed.POST("/raffles/:raffleID/tickets", handler.HandlePurchaseTicket)

	return router
}

func TestHandleOpenRaffle(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		svcErr       error
		expectedCode int
	}{
		{
			name:         "created",
			body:         `{"book_id":1,"participant_limit":10,"price":2}`,
			expectedCode: http.StatusCreated,
		},
		{
			name:         "malformed body",
			body:         `{"book_id":`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "zero participant limit rejected",
			body:         `{"book_id":1,"participant_limit":0}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "unknown book rejected",
			body:         `{"book_id":42,"participant_limit":10}`,
			svcErr:       service.ErrRaffleValidation,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRaffleTestRouter(&stubRaffleService{err: tt.svcErr}, &stubUserService{})

			req := httptest.NewRequest(http.MethodPost, "/raffles", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestHandleGetRaffle(t *testing.T) {
	router := newRaffleTestRouter(&stubRaffleService{raffle: domain.Raffle{ID: 7}}, &stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/raffles/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var raffle domain.Raffle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raffle))
	assert.Equal(t, uint(7), raffle.ID)
}

func TestHandleGetRaffle_NotFound(t *testing.T) {
	router := newRaffleTestRouter(&stubRaffleService{err: service.ErrRaffleNotFound}, &stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/raffles/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCloseRaffle_AlreadyClosed(t *testing.T) {
	router := newRaffleTestRouter(&stubRaffleService{err: service.ErrRaffleClosed}, &stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/raffles/7/close", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandlePurchaseTicket(t *testing.T) {
	tests := []struct {
		name         string
		purchaseErr  error
		expectedCode int
	}{
		{"purchased", nil, http.StatusCreated},
		{"raffle full", service.ErrRaffleFull, http.StatusConflict},
		{"raffle not ongoing", service.ErrRaffleNotOngoing, http.StatusConflict},
		{"raffle missing", service.ErrRaffleNotFound, http.StatusNotFound},
		{"insufficient balance", service.ErrInsufficientBalance, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubRaffleService{
				ticket:      domain.Ticket{ID: 1, RaffleID: 7, UserID: 1},
				purchaseErr: tt.purchaseErr,
			}
			router := newRaffleTestRouter(svc, &stubUserService{user: domain.User{ID: 1}})

			req := httptest.NewRequest(http.MethodPost, "/raffles/7/tickets", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}
