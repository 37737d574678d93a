package model

import (
	"strings"
	"time"
	"unicode"
)

// Ticket — вопрос, ожидающий ответа оператора. Создаётся внешней системой,
// шлюз его только читает.
type Ticket struct {
	ID          uint64 `gorm:"primaryKey" json:"-"`
	TicketID    string `gorm:"column:ticket_id;type:varchar(128);uniqueIndex;not null" json:"ticket_id"`
	SenderID    string `gorm:"column:sender_id;not null" json:"sender_id"`
	Question    string `gorm:"type:text;not null" json:"question"`
	VehicleType string `gorm:"column:vehicle_type;type:varchar(128);not null" json:"vehicle_type"`
	Location    string `gorm:"type:varchar(255);not null" json:"location"`
	Status      string `gorm:"type:varchar(32);not null" json:"status"`
	CreatedAt   string `gorm:"column:created_at;type:varchar(64)" json:"createdAt"`
}

func (Ticket) TableName() string { return "tickets" }

// TicketView is the public projection returned by the lookup endpoint.
type TicketView struct {
	TicketID           string `json:"ticket_id"`
	SenderID           string `json:"sender_id"`
	Question           string `json:"question"`
	VehicleType        string `json:"vehicle_type"`
	VehicleTypeDisplay string `json:"vehicle_type_display"`
	Location           string `json:"location"`
	LocationDisplay    string `json:"location_display"`
	Status             string `json:"status"`
	CreatedAt          string `json:"createdAt"`
}

func (t *Ticket) View() TicketView {
	return TicketView{
		TicketID:           t.TicketID,
		SenderID:           t.SenderID,
		Question:           t.Question,
		VehicleType:        t.VehicleType,
		VehicleTypeDisplay: DisplayCase(t.VehicleType),
		Location:           t.Location,
		LocationDisplay:    DisplayCase(t.Location),
		Status:             t.Status,
		CreatedAt:          t.CreatedAt,
	}
}

// DisplayCase upper-cases the first letter of every word, e.g. "two wheeler" -> "Two Wheeler".
func DisplayCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Mode selects the reply shape.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeText
	ModeAction
	ModeBoth
)

func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return ModeText
	case "action":
		return ModeAction
	case "both":
		return ModeBoth
	default:
		return ModeUnknown
	}
}

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeAction:
		return "action"
	case ModeBoth:
		return "both"
	default:
		return ""
	}
}

// ActionType is the artifact the operator asks the requester to look at.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionNone
	ActionDemoVideo
	ActionAppScreenshot
	ActionDevicePhoto
)

// ParseActionType maps an empty string to ActionNone: the form omits the field when nothing is selected.
func ParseActionType(s string) ActionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ActionNone
	case "demo_video":
		return ActionDemoVideo
	case "app_screenshot":
		return ActionAppScreenshot
	case "device_photo":
		return ActionDevicePhoto
	default:
		return ActionUnknown
	}
}

func (a ActionType) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDemoVideo:
		return "demo_video"
	case ActionAppScreenshot:
		return "app_screenshot"
	case ActionDevicePhoto:
		return "device_photo"
	default:
		return ""
	}
}

// ReplyDraft — тело POST /submit как его прислал клиент.
type ReplyDraft struct {
	TicketID   string `json:"ticket_id"`
	Token      string `json:"token"`
	Mode       string `json:"mode"`
	ActionType string `json:"action_type"`
	AnswerText string `json:"answer_text"`
}

// ReplySubmission is a draft that passed validation.
type ReplySubmission struct {
	TicketID   string
	Mode       Mode
	ActionType ActionType
	AnswerText string
}

// ReplyEnvelope is the body posted to the downstream workflow. The token is never part of it.
type ReplyEnvelope struct {
	TicketID    string `json:"ticket_id"`
	Mode        string `json:"mode"`
	ActionType  string `json:"action_type"`
	AnswerText  string `json:"answer_text"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmittedAtLayout matches the millisecond ISO-8601 form the workflow already parses.
const SubmittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

func NewReplyEnvelope(s ReplySubmission, now time.Time) ReplyEnvelope {
	return ReplyEnvelope{
		TicketID:    s.TicketID,
		Mode:        s.Mode.String(),
		ActionType:  s.ActionType.String(),
		AnswerText:  s.AnswerText,
		SubmittedAt: now.UTC().Format(SubmittedAtLayout),
	}
}
