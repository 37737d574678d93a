package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/psds-microservice/ticket-reply-service/internal/dedup"
	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/kafka"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
	"github.com/psds-microservice/ticket-reply-service/internal/reply"
	"github.com/psds-microservice/ticket-reply-service/internal/workflow"
)

const eventTimeout = 5 * time.Second

// TokenAuthenticator проверяет токен из ссылки на форму.
type TokenAuthenticator interface {
	Authenticate(token string) error
}

// GatewayDeps — зависимости шлюза. Events, Guard и Metrics необязательны.
type GatewayDeps struct {
	Auth      TokenAuthenticator
	Tickets   TicketFinder
	Forwarder workflow.Forwarder
	Events    kafka.ReplyEventProducer
	Guard     dedup.Guard
	Metrics   *Metrics
	Log       *slog.Logger
	Now       func() time.Time
}

// Gateway composes the lookup and submit operations. The only state it keeps
// is the set of audit events still in flight.
type Gateway struct {
	GatewayDeps
	inflight sync.WaitGroup
}

func NewGateway(deps GatewayDeps) *Gateway {
	if deps.Guard == nil {
		deps.Guard = dedup.Noop{}
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Gateway{GatewayDeps: deps}
}

// Lookup authenticates first, then reads the ticket. A missing ticket is
// errs.ErrTicketNotFound, a store failure is *errs.StoreError.
func (g *Gateway) Lookup(ctx context.Context, ticketID, token string) (*model.Ticket, error) {
	if err := g.Auth.Authenticate(token); err != nil {
		return nil, err
	}
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, errs.ValidationError(reply.ReasonMissingTicketID)
	}
	return g.Tickets.FindByTicketID(ctx, ticketID)
}

// Submit runs auth, validation and a single forward, in that order. Nothing reaches
// the workflow unless the first two pass.
func (g *Gateway) Submit(ctx context.Context, draft model.ReplyDraft, requestID string) error {
	if err := g.Auth.Authenticate(draft.Token); err != nil {
		return err
	}
	sub, err := reply.Validate(draft)
	if err != nil {
		return err
	}

	release, ok, err := g.Guard.Acquire(ctx, sub.TicketID)
	switch {
	case err != nil:
		g.Log.Warn("reply_guard_unavailable",
			slog.String("ticket_id", sub.TicketID),
			slog.String("err", err.Error()),
		)
		release = nil
	case !ok:
		return errs.ErrDuplicateSubmission
	}

	env := model.NewReplyEnvelope(sub, g.Now())
	err = g.Forwarder.Forward(ctx, env)
	g.Metrics.observeForward(err)
	if err != nil {
		if release != nil {
			if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
				g.Log.Warn("reply_guard_release_failed", slog.String("err", rerr.Error()))
			}
		}
		var de *errs.DownstreamError
		if errors.As(err, &de) {
			g.Log.Error("reply_forward_failed",
				slog.String("ticket_id", sub.TicketID),
				slog.Int("status", de.StatusCode),
				slog.String("err", de.Error()),
			)
		}
		return err
	}

	g.Log.Info("reply_forwarded",
		slog.String("ticket_id", sub.TicketID),
		slog.String("mode", env.Mode),
		slog.String("action_type", env.ActionType),
	)
	g.publish(env, requestID)
	return nil
}

// publish is fire-and-forget: the event must go out even if the request is cancelled, but bounded by eventTimeout.
func (g *Gateway) publish(env model.ReplyEnvelope, requestID string) {
	if g.Events == nil {
		return
	}
	ev := kafka.ReplyEvent{
		Event:       kafka.EventReplyForwarded,
		TicketID:    env.TicketID,
		Mode:        env.Mode,
		ActionType:  env.ActionType,
		SubmittedAt: env.SubmittedAt,
		RequestID:   requestID,
	}
	g.inflight.Add(1)
	go func() {
		defer g.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		g.Events.ProduceReplyEvent(ctx, ev)
	}()
}

// Drain waits for audit events already handed to publish. Call it after the HTTP
// server has stopped and before the producer is closed.
func (g *Gateway) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
