package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rentalconnect/rentalconnect/internal/domain"
)

var messageCols = []string{"id", "sender_id", "receiver_id", "property_id", "content", "read", "created_at"}

func TestMessageCreate_NullProperty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db, nil)
	now := time.Now()

	mock.ExpectQuery(`INSERT\s+INTO\s+messages`).
		WithArgs(idMessage, idOther, idRenter, nil, "hello", false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	m := &domain.Message{ID: idMessage, SenderID: idOther, ReceiverID: idRenter, Content: "hello"}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !m.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned")
	}
}

func TestMessageListForAccount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db, nil)
	now := time.Now()

	rows := sqlmock.NewRows(messageCols).
		AddRow("m2", idRenter, idLandlord, idListing, "second", false, now).
		AddRow(idMessage, idLandlord, idRenter, nil, "first", true, now.Add(-time.Minute))
	mock.ExpectQuery(`(?s)WHERE\s+sender_id\s*=\s*\$1\s+OR\s+receiver_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs(idRenter).
		WillReturnRows(rows)

	got, err := repo.ListForAccount(context.Background(), idRenter)
	if err != nil {
		t.Fatalf("ListForAccount error: %v", err)
	}
	if len(got) != 2 || got[0].PropertyID != idListing || got[1].PropertyID != "" {
		t.Fatalf("unexpected messages: %+v", got)
	}
}

func TestMessageMarkRead_NotReceiver(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db, nil)

	mock.ExpectQuery(`(?s)UPDATE\s+messages\s+SET\s+read\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s+AND\s+receiver_id\s*=\s*\$2`).
		WithArgs(idMessage, idOther).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.MarkRead(context.Background(), idMessage, idOther); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMessageMarkRead_Success(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresMessageRepository(db, nil)

	mock.ExpectQuery(`UPDATE\s+messages`).
		WithArgs(idMessage, idRenter).
		WillReturnRows(sqlmock.NewRows(messageCols).AddRow(idMessage, idOther, idRenter, nil, "hi", true, time.Now()))

	m, err := repo.MarkRead(context.Background(), idMessage, idRenter)
	if err != nil || !m.Read {
		t.Fatalf("expected read message, got %+v, %v", m, err)
	}
}
