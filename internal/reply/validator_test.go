package reply

import (
	"errors"
	"testing"

	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
)

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		draft model.ReplyDraft
		want  string
	}{
		{
			name:  "missing ticket id",
			draft: model.ReplyDraft{Token: "t", Mode: "text", AnswerText: "hi"},
			want:  ReasonMissingTicketID,
		},
		{
			name:  "blank ticket id",
			draft: model.ReplyDraft{TicketID: "  ", Token: "t", Mode: "text", AnswerText: "hi"},
			want:  ReasonMissingTicketID,
		},
		{
			name:  "missing token",
			draft: model.ReplyDraft{TicketID: "T-1", Mode: "text", AnswerText: "hi"},
			want:  ReasonMissingToken,
		},
		{
			name:  "text without answer",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "text", AnswerText: ""},
			want:  ReasonMissingAnswerText,
		},
		{
			name:  "text with whitespace answer",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "text", AnswerText: " \n "},
			want:  ReasonMissingAnswerText,
		},
		{
			name:  "action with none",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "action", ActionType: "none"},
			want:  ReasonMissingAction,
		},
		{
			name:  "action with empty action type",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "action"},
			want:  ReasonMissingAction,
		},
		{
			name:  "both without action",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "both", ActionType: "none", AnswerText: "ok"},
			want:  ReasonMissingAction,
		},
		{
			name:  "both without answer",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "both", ActionType: "device_photo"},
			want:  ReasonMissingAnswerText,
		},
		{
			name:  "unknown mode",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "voice", AnswerText: "hi"},
			want:  ReasonInvalidMode,
		},
		{
			name:  "unknown action",
			draft: model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "action", ActionType: "hologram"},
			want:  ReasonInvalidAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.draft)
			var ve errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if string(ve) != tt.want {
				t.Fatalf("expected reason %q, got %q", tt.want, string(ve))
			}
		})
	}
}

func TestValidateTextNormalizesAction(t *testing.T) {
	got, err := Validate(model.ReplyDraft{TicketID: " T-1 ", Token: "t", Mode: "text", ActionType: "demo_video", AnswerText: "  use the app  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TicketID != "T-1" {
		t.Fatalf("expected trimmed ticket id, got %q", got.TicketID)
	}
	if got.Mode != model.ModeText || got.ActionType != model.ActionNone {
		t.Fatalf("expected text/none, got %s/%s", got.Mode, got.ActionType)
	}
	if got.AnswerText != "use the app" {
		t.Fatalf("unexpected answer %q", got.AnswerText)
	}
}

func TestValidateActionDropsAnswer(t *testing.T) {
	got, err := Validate(model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "action", ActionType: "app_screenshot", AnswerText: "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ActionType != model.ActionAppScreenshot {
		t.Fatalf("unexpected action %s", got.ActionType)
	}
	if got.AnswerText != "" {
		t.Fatalf("expected answer to be dropped, got %q", got.AnswerText)
	}
}

func TestValidateBoth(t *testing.T) {
	got, err := Validate(model.ReplyDraft{TicketID: "T-1", Token: "t", Mode: "both", ActionType: "demo_video", AnswerText: "ok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Mode != model.ModeBoth || got.ActionType != model.ActionDemoVideo || got.AnswerText != "ok" {
		t.Fatalf("unexpected submission: %+v", got)
	}
}
