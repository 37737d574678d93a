package kafka

import (
	"context"
	"testing"
)

func TestProducerDisabledWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, "ticket.replies", nil)
	if p.Enabled() {
		t.Fatalf("expected disabled producer")
	}
	// must be a no-op, not a panic
	p.ProduceReplyEvent(context.Background(), ReplyEvent{TicketID: "T-1"})
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestProducerDisabledWithoutTopic(t *testing.T) {
	if NewProducer([]string{"localhost:9092"}, "", nil).Enabled() {
		t.Fatalf("expected disabled producer without topic")
	}
}
