package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rentalconnect/rentalconnect/internal/domain"
	"github.com/rentalconnect/rentalconnect/internal/observability/metrics"
	"github.com/rentalconnect/rentalconnect/internal/security"
	"github.com/rentalconnect/rentalconnect/internal/security/audit"
)

// MessageService stores directed messages and serves each account's merged inbox
type MessageService struct {
	messages domain.MessageRepository
	listings domain.ListingRepository
	accounts *AccountService
	authz    *security.AuthorizationService
	audit    *audit.Logger
	logger   *slog.Logger
	newID    func() string
	// permissive skips receiver and listing existence checks on send
	permissive bool
}

// MessageOption configures a MessageService
type MessageOption func(*MessageService)

// WithPermissiveSend disables the receiver and listing existence checks
func WithPermissiveSend(enabled bool) MessageOption {
	return func(s *MessageService) { s.permissive = enabled }
}

// NewMessageService creates a new message service
func NewMessageService(
	messages domain.MessageRepository,
	listings domain.ListingRepository,
	accounts *AccountService,
	authz *security.AuthorizationService,
	auditLog *audit.Logger,
	logger *slog.Logger,
	opts ...MessageOption,
) *MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	if authz == nil {
		authz = security.NewAuthorizationService(logger)
	}
	if auditLog == nil {
		auditLog = audit.NewLogger(logger)
	}
	s := &MessageService{
		messages: messages,
		listings: listings,
		accounts: accounts,
		authz:    authz,
		audit:    auditLog,
		logger:   logger,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendInput is the payload of a new message
type SendInput struct {
	ReceiverID string
	PropertyID string
	Content    string
}

// Send stores a message from the caller. Content must be non-blank; the
// receiver and the optional listing must exist unless permissive mode is on.
func (s *MessageService) Send(ctx context.Context, id domain.Identity, in SendInput) (*domain.Message, error) {
	if err := s.authz.Require(id, security.PermSendMessages); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		metrics.ObserveMessage("send", metrics.ResultRejected)
		return nil, domain.Invalid("content", "message content is required")
	}
	receiverID := strings.TrimSpace(in.ReceiverID)
	if receiverID == "" {
		metrics.ObserveMessage("send", metrics.ResultRejected)
		return nil, domain.Invalid("receiverId", "receiver is required")
	}
	propertyID := strings.TrimSpace(in.PropertyID)

	if !s.permissive {
		if err := s.checkReferences(ctx, receiverID, propertyID); err != nil {
			metrics.ObserveMessage("send", metrics.ResultRejected)
			return nil, err
		}
	}

	msg := &domain.Message{
		ID:         s.newID(),
		SenderID:   id.AccountID,
		ReceiverID: receiverID,
		PropertyID: propertyID,
		Content:    content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		metrics.ObserveMessage("send", metrics.ResultError)
		s.audit.LogMessage(ctx, id.AccountID, "send", msg.ID, audit.StatusFailure)
		return nil, surface(s.logger, "send message", err)
	}

	metrics.ObserveMessage("send", metrics.ResultOK)
	s.audit.LogMessage(ctx, id.AccountID, "send", msg.ID, audit.StatusSuccess)
	if err := s.populate(ctx, []*domain.Message{msg}); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) checkReferences(ctx context.Context, receiverID, propertyID string) error {
	if s.accounts != nil {
		ok, err := s.accounts.Exists(ctx, receiverID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFound("receiver")
		}
	}
	if propertyID != "" {
		if _, err := s.listings.GetByID(ctx, propertyID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("property")
			}
			return surface(s.logger, "load listing", err)
		}
	}
	return nil
}

// Inbox returns every message the caller sent or received, newest first
func (s *MessageService) Inbox(ctx context.Context, id domain.Identity) ([]*domain.Message, error) {
	if err := s.authz.Require(id, security.PermSendMessages); err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListForAccount(ctx, id.AccountID)
	if err != nil {
		return nil, surface(s.logger, "list messages", err)
	}
	if err := s.populate(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkRead sets the read flag on a message addressed to the caller.
// Anyone else gets NotFound, including the sender.
func (s *MessageService) MarkRead(ctx context.Context, id domain.Identity, messageID string) (*domain.Message, error) {
	if err := s.authz.Require(id, security.PermSendMessages); err != nil {
		return nil, err
	}
	msg, err := s.messages.MarkRead(ctx, messageID, id.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.ObserveMessage("read", metrics.ResultRejected)
			return nil, domain.NotFound("message")
		}
		metrics.ObserveMessage("read", metrics.ResultError)
		return nil, surface(s.logger, "mark message read", err)
	}

	metrics.ObserveMessage("read", metrics.ResultOK)
	s.audit.LogMessage(ctx, id.AccountID, "read", messageID, audit.StatusSuccess)
	if err := s.populate(ctx, []*domain.Message{msg}); err != nil {
		return nil, err
	}
	return msg, nil
}

// populate resolves participants and the referenced listing title
func (s *MessageService) populate(ctx context.Context, msgs []*domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(msgs)*2)
	propertyIDs := []string{}
	seen := map[string]bool{}
	for _, m := range msgs {
		accountIDs = append(accountIDs, m.SenderID, m.ReceiverID)
		if m.PropertyID != "" && !seen[m.PropertyID] {
			seen[m.PropertyID] = true
			propertyIDs = append(propertyIDs, m.PropertyID)
		}
	}

	profiles := map[string]*domain.PublicProfile{}
	if s.accounts != nil {
		var err error
		if profiles, err = s.accounts.PublicProfiles(ctx, accountIDs); err != nil {
			return err
		}
	}

	titles := map[string]string{}
	if len(propertyIDs) > 0 {
		listings, err := s.listings.GetByIDs(ctx, propertyIDs)
		if err != nil {
			return surface(s.logger, "resolve message listings", err)
		}
		for _, l := range listings {
			titles[l.ID] = l.Title
		}
	}

	for _, m := range msgs {
		m.Sender = participant(profiles, m.SenderID)
		m.Receiver = participant(profiles, m.ReceiverID)
		if title, ok := titles[m.PropertyID]; ok {
			m.Property = &domain.ListingSummary{ID: m.PropertyID, Title: title}
		}
	}
	return nil
}

func participant(profiles map[string]*domain.PublicProfile, id string) *domain.PublicProfile {
	if p, ok := profiles[id]; ok {
		return p.Participant()
	}
	return &domain.PublicProfile{ID: id}
}
