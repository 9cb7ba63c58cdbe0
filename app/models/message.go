package models

import "time"

// MessageType categorises inbox messages.
type MessageType string

const (
	MessageGeneral         MessageType = "general"
	MessageIncident        MessageType = "incident"
	MessagePaymentReminder MessageType = "payment_reminder"
	MessageDocumentRequest MessageType = "document_request"
)

var MessageTypes = []MessageType{MessageGeneral, MessageIncident, MessagePaymentReminder, MessageDocumentRequest}

func (t MessageType) Label() string {
	switch t {
	case MessageGeneral:
		return "Général"
	case MessageIncident:
		return "Incident"
	case MessagePaymentReminder:
		return "Rappel de paiement"
	case MessageDocumentRequest:
		return "Demande de document"
	default:
		return string(t)
	}
}

// Message is an inbox entry. A message without ParentID is a thread root;
// replies point at the root and are never nested further.
type Message struct {
	ID          int64       `json:"id"`
	SenderID    int64       `json:"sender_id"`
	Sender      *User       `json:"sender,omitempty"`
	RecipientID *int64      `json:"recipient_id,omitempty"`
	Recipient   *User       `json:"recipient,omitempty"`
	Subject     string      `json:"subject"`
	Content     string      `json:"content"`
	Type        MessageType `json:"type"`
	Attachments []string    `json:"attachments"`
	IsRead      bool        `json:"is_read"`
	ParentID    *int64      `json:"parent_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (m *Message) IsRoot() bool {
	return m.ParentID == nil
}
