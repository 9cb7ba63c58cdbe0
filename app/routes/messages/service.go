package messages

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rentals-dashboard/app/backend"
	"rentals-dashboard/app/models"
	"rentals-dashboard/app/validation"
	"rentals-dashboard/app/views"
)

const (
	messagesPath = "/dashboard/messages"
	maxSubject   = 50

	msgValidation = "Veuillez corriger les erreurs de validation."
	msgSendErr    = "Echec de l'envoi du message"
)

type MessageForm struct {
	RecipientID string `form:"recipient_id" json:"recipient_id"`
	Subject     string `form:"subject" json:"subject"`
	Content     string `form:"content" json:"content"`
	Type        string `form:"type" json:"type"`
}

type messageFields struct {
	Subject string `form:"subject" validate:"min=5,max=50"`
	Content string `form:"content" validate:"min=10,max=1000"`
	Type    string `form:"type" validate:"oneof=general incident payment_reminder document_request"`
}

func (f MessageForm) parse(files []*multipart.FileHeader) (backend.MessageInput, validation.FieldErrors) {
	typ := strings.TrimSpace(f.Type)
	if typ == "" {
		typ = string(models.MessageGeneral)
	}
	fields := messageFields{
		Subject: strings.TrimSpace(f.Subject),
		Content: strings.TrimSpace(f.Content),
		Type:    typ,
	}
	errs := validation.FieldErrors{}
	errs.Merge(validation.Struct(fields))
	validation.AttachmentRules.Check("attachments", files, errs)

	in := backend.MessageInput{
		Subject: fields.Subject,
		Content: fields.Content,
		Type:    models.MessageType(typ),
	}
	if raw := strings.TrimSpace(f.RecipientID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs.Add("recipient_id", "Destinataire invalide.")
		} else {
			in.RecipientID = &id
		}
	}
	return in, errs
}

type Service struct {
	api *backend.Client
	log *zap.Logger
}

func NewService(api *backend.Client, log *zap.Logger) *Service {
	return &Service{api: api, log: log}
}

func (s *Service) Inbox(ctx context.Context, q Query) (Page, error) {
	all, err := s.api.ListMessages(ctx)
	if err != nil {
		return Page{}, err
	}
	return Inbox(all, q), nil
}

// Open loads a message with its replies and marks it read if it was not.
func (s *Service) Open(ctx context.Context, id int64) (*models.Message, []models.Message, error) {
	msg, err := s.api.GetMessage(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !msg.IsRead {
		if err := s.api.MarkMessageRead(ctx, id); err != nil {
			if backend.IsAuthFailure(err) {
				return nil, nil, err
			}
			s.log.Warn("mark message read failed", zap.Int64("message_id", id), zap.Error(err))
		} else {
			msg.IsRead = true
		}
	}
	replies, err := s.api.ListReplies(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return msg, RepliesTo(replies, id), nil
}

// Send validates the form and its attachments, then posts the message.
// parentID is nil for a new thread.
func (s *Service) Send(ctx context.Context, form MessageForm, files []*multipart.FileHeader, parentID *int64) (views.FormState, error) {
	in, errs := form.parse(files)
	if errs.Any() {
		return views.FormState{Message: msgValidation, Errors: errs}, nil
	}
	in.ParentID = parentID
	in.Attachments = backend.FromFileHeaders(files)

	msg, err := s.api.SendMessage(ctx, in)
	if err != nil {
		if backend.IsAuthFailure(err) {
			return views.FormState{}, err
		}
		if text, fieldErrs, ok := backend.ValidationErrors(err); ok {
			errs.Merge(fieldErrs)
			if text == "" {
				text = msgValidation
			}
			return views.FormState{Message: text, Errors: errs}, nil
		}
		s.log.Error("send message failed", zap.String("type", string(in.Type)), zap.Int("attachments", len(files)), zap.Error(err))
		return views.FormState{Message: msgSendErr, Errors: validation.FieldErrors{}}, nil
	}

	redirect := messagesPath
	switch {
	case parentID != nil:
		redirect = messagePath(*parentID)
	case msg != nil && msg.ID > 0:
		redirect = messagePath(msg.ID)
	}
	return views.FormState{Redirect: redirect}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.api.DeleteMessage(ctx, id)
}

func messagePath(id int64) string {
	return messagesPath + "/" + strconv.FormatInt(id, 10)
}
