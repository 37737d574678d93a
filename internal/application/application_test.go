package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/psds-microservice/ticket-reply-service/internal/auth"
	"github.com/psds-microservice/ticket-reply-service/internal/kafka"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
	"github.com/psds-microservice/ticket-reply-service/internal/service"
)

type okForwarder struct{}

func (okForwarder) Forward(context.Context, model.ReplyEnvelope) error { return nil }

type slowEvents struct {
	mu   sync.Mutex
	sent int
}

func (s *slowEvents) ProduceReplyEvent(context.Context, kafka.ReplyEvent) {
	time.Sleep(50 * time.Millisecond)
	s.mu.Lock()
	s.sent++
	s.mu.Unlock()
}

func (s *slowEvents) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sent
}

func TestRunCleansUpWhenListenFails(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = busy.Close() }()

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	events := &slowEvents{}
	gw := service.NewGateway(service.GatewayDeps{
		Auth:      auth.NewAuthenticator("mysecret"),
		Forwarder: okForwarder{},
		Events:    events,
		Log:       log,
	})
	draft := model.ReplyDraft{TicketID: "T-1", Token: "mysecret", Mode: "text", AnswerText: "ok"}
	if err := gw.Submit(context.Background(), draft, ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	tracingClosed := false
	a := &API{
		log:      log,
		httpSrv:  &http.Server{Addr: busy.Addr().String(), ReadHeaderTimeout: time.Second},
		gateway:  gw,
		producer: kafka.NewProducer(nil, "", log),
		shutdown: func(context.Context) error {
			tracingClosed = true
			return nil
		},
	}

	err = a.Run(context.Background())
	if err == nil {
		t.Fatalf("expected listen error")
	}
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected net.OpError, got %v", err)
	}
	if !tracingClosed {
		t.Fatalf("tracer provider must be shut down on listen failure")
	}
	if events.count() != 1 {
		t.Fatalf("pending reply event must be delivered before close, got %d", events.count())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	tracingClosed := false
	a := &API{
		log:      log,
		httpSrv:  &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second},
		gateway:  service.NewGateway(service.GatewayDeps{Log: log}),
		producer: kafka.NewProducer(nil, "", log),
		shutdown: func(context.Context) error {
			tracingClosed = true
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !tracingClosed {
		t.Fatalf("tracer provider must be shut down")
	}
}
