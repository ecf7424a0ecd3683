package service

import (
	"context"
	"errors"
	"testing"

	"gochat/dao"
	"gochat/model"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t, Options{BcryptCost: 4})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("registered user has no id")
	}
	if user.Password == "s3cret" {
		t.Error("password stored in plaintext")
	}

	got, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("login returned user %v, want %v", got.ID, user.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newTestService(t, Options{BcryptCost: 4})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "s3cret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"wrong password", "alice", "nope", ErrInvalidCredentials},
		{"unknown user", "mallory", "s3cret", ErrInvalidCredentials},
		{"empty password", "alice", "", ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.username, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Login = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService(t, Options{BcryptCost: 4})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "one"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "two"); !errors.Is(err, dao.ErrUserExists) {
		t.Errorf("second Register = %v, want ErrUserExists", err)
	}
}

func TestConversationBothDirections(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	ctx := context.Background()

	a := admitClient(svc, &fakeConn{}, "a", "alice")
	b := admitClient(svc, &fakeConn{}, "b", "bob")

	events := []struct {
		sender *Client
		to     string
		text   string
	}{
		{a, "b", "hi bob"},
		{b, "a", "hi alice"},
		{a, "c", "unrelated"},
	}
	for _, ev := range events {
		if err := svc.HandleInbound(ctx, ev.sender, &model.ChatEvent{Recipient: ev.to, Text: ev.text}); err != nil {
			t.Fatalf("HandleInbound: %v", err)
		}
	}

	msgs, err := svc.Conversation(ctx, "a", "b")
	if err != nil {
		t.Fatalf("Conversation: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("conversation has %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != "hi bob" || msgs[1].Text != "hi alice" {
		t.Errorf("conversation order wrong: %q, %q", msgs[0].Text, msgs[1].Text)
	}
}
