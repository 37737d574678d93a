package reply

import (
	"strings"

	"github.com/psds-microservice/ticket-reply-service/internal/errs"
	"github.com/psds-microservice/ticket-reply-service/internal/model"
)

const (
	ReasonMissingTicketID   = "missing ticket_id"
	ReasonMissingToken      = "missing token"
	ReasonInvalidMode       = "invalid mode"
	ReasonInvalidAction     = "invalid action_type"
	ReasonMissingAction     = "missing action selection"
	ReasonMissingAnswerText = "missing answer text"
)

// Validate checks a draft against the mode rules and returns the normalized submission.
// It is pure: no I/O, no clock.
func Validate(d model.ReplyDraft) (model.ReplySubmission, error) {
	ticketID := strings.TrimSpace(d.TicketID)
	if ticketID == "" {
		return model.ReplySubmission{}, errs.ValidationError(ReasonMissingTicketID)
	}
	if strings.TrimSpace(d.Token) == "" {
		return model.ReplySubmission{}, errs.ValidationError(ReasonMissingToken)
	}

	mode := model.ParseMode(d.Mode)
	action := model.ParseActionType(d.ActionType)
	answer := strings.TrimSpace(d.AnswerText)

	out := model.ReplySubmission{TicketID: ticketID, Mode: mode}
	switch mode {
	case model.ModeText:
		if answer == "" {
			return model.ReplySubmission{}, errs.ValidationError(ReasonMissingAnswerText)
		}
		out.ActionType = model.ActionNone
		out.AnswerText = answer
	case model.ModeAction:
		if err := requireAction(action); err != nil {
			return model.ReplySubmission{}, err
		}
		out.ActionType = action
		out.AnswerText = ""
	case model.ModeBoth:
		if err := requireAction(action); err != nil {
			return model.ReplySubmission{}, err
		}
		if answer == "" {
			return model.ReplySubmission{}, errs.ValidationError(ReasonMissingAnswerText)
		}
		out.ActionType = action
		out.AnswerText = answer
	default:
		return model.ReplySubmission{}, errs.ValidationError(ReasonInvalidMode)
	}
	return out, nil
}

func requireAction(a model.ActionType) error {
	switch a {
	case model.ActionDemoVideo, model.ActionAppScreenshot, model.ActionDevicePhoto:
		return nil
	case model.ActionNone:
		return errs.ValidationError(ReasonMissingAction)
	default:
		return errs.ValidationError(ReasonInvalidAction)
	}
}
