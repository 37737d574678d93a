package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
	"gorm.io/gorm"
)

// TicketFinder — чтение тикета по ключу (Dependency Inversion для Gateway и тестов).
type TicketFinder interface {
	FindByTicketID(ctx context.Context, ticketID string) (*model.Ticket, error)
}

// TicketService reads tickets from the store. It never writes: ticket status
// belongs to the downstream workflow.
type TicketService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTicketService(db *gorm.DB, timeout time.Duration) *TicketService {
	return &TicketService{db: db, timeout: timeout}
}

// FindByTicketID returns errs.ErrTicketNotFound when the store has no such ticket
// and *errs.StoreError for anything else, including a timeout.
func (s *TicketService) FindByTicketID(ctx context.Context, ticketID string) (*model.Ticket, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, errs.ValidationError("missing ticket_id")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	var t model.Ticket
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, &errs.StoreError{Op: "find ticket", Err: err}
	}
	return &t, nil
}

// Ping проверяет доступность хранилища для /ready.
func (s *TicketService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
