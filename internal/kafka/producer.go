package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const EventReplyForwarded = "ticket.reply_forwarded"

// ReplyEvent — аудит-событие об ответе, успешно переданном в workflow.
type ReplyEvent struct {
	EventID     string `json:"event_id"`
	Event       string `json:"event"`
	TicketID    string `json:"ticket_id"`
	Mode        string `json:"mode"`
	ActionType  string `json:"action_type"`
	SubmittedAt string `json:"submitted_at"`
	RequestID   string `json:"request_id,omitempty"`
}

// ReplyEventProducer — интерфейс для отправки событий в Kafka (для подмены моком в тестах).
type ReplyEventProducer interface {
	ProduceReplyEvent(ctx context.Context, ev ReplyEvent)
}

// Producer пишет события ответов в топик Kafka (best-effort, не блокирует API).
type Producer struct {
	writer *kafka.Writer
	topic  string
	log    *slog.Logger
}

// NewProducer создаёт продюсер. Если brokers пустой или topic пустой — методы no-op.
func NewProducer(brokers []string, topic string, log *slog.Logger) *Producer {
	if log == nil {
		log = slog.Default()
	}
	if len(brokers) == 0 || topic == "" {
		return &Producer{log: log}
	}
	return &Producer{
		topic: topic,
		log:   log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// ProduceReplyEvent keys messages by ticket_id so replies for one ticket stay ordered.
func (p *Producer) ProduceReplyEvent(ctx context.Context, ev ReplyEvent) {
	if p.writer == nil {
		return
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.Event == "" {
		ev.Event = EventReplyForwarded
	}
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("kafka_marshal_failed", slog.String("err", err.Error()))
		return
	}
	msg := kafka.Message{Key: []byte(ev.TicketID), Value: body}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("kafka_write_failed",
			slog.String("topic", p.topic),
			slog.String("ticket_id", ev.TicketID),
			slog.String("err", err.Error()),
		)
	}
}

// Close закрывает writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
