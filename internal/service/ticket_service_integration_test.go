package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/psds-microservice/ticket-reply-service/internal/database"
	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
)

func TestTicketServiceFindByTicketID(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.AutoMigrate(&model.Ticket{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seed := model.Ticket{
		TicketID:    "it-" + uuid.NewString(),
		SenderID:    "42",
		Question:    "Does the scooter app work offline?",
		VehicleType: "two wheeler",
		Location:    "pune",
		Status:      "pending",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() { db.Where("ticket_id = ?", seed.TicketID).Delete(&model.Ticket{}) })

	svc := NewTicketService(db, 5*time.Second)
	ctx := context.Background()

	got, err := svc.FindByTicketID(ctx, seed.TicketID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Question != seed.Question || got.Location != "pune" {
		t.Fatalf("unexpected ticket %+v", got)
	}

	if _, err := svc.FindByTicketID(ctx, "missing-"+uuid.NewString()); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var ve errs.ValidationError
	if _, err := svc.FindByTicketID(ctx, ""); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for empty id, got %v", err)
	}
}
