package domain

import (
	"context"
	"time"
)

// ListingSummary is the listing context shown alongside a message
type ListingSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Message is a directed note between two accounts
type Message struct {
	ID         string          `json:"id"`
	SenderID   string          `json:"senderId"`
	ReceiverID string          `json:"receiverId"`
	PropertyID string          `json:"propertyId,omitempty"`
	Sender     *PublicProfile  `json:"sender,omitempty"`
	Receiver   *PublicProfile  `json:"receiver,omitempty"`
	Property   *ListingSummary `json:"property,omitempty"`
	Content    string          `json:"content"`
	Read       bool            `json:"read"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// MessageRepository defines data access for messages
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListForAccount returns messages sent or received by accountID, newest first
	ListForAccount(ctx context.Context, accountID string) ([]*Message, error)
	// MarkRead sets the read flag only when receiverID is the message's receiver
	MarkRead(ctx context.Context, id, receiverID string) (*Message, error)
}

// BookmarkRepository stores the saved-listing set of an account.
// Add must be an atomic add-if-absent; it returns ErrAlreadySaved when the pair exists.
type BookmarkRepository interface {
	Add(ctx context.Context, accountID, listingID string) error
	Remove(ctx context.Context, accountID, listingID string) error
	Exists(ctx context.Context, accountID, listingID string) (bool, error)
	ListIDs(ctx context.Context, accountID string) ([]string, error)
}
