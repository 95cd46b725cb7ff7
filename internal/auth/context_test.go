package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/repapp/internal/model"
)

func TestWithSessionAndFromContext(t *testing.T) {
	s := Session{
		Token:  "tok",
		User:   model.User{ID: 1, Name: "Ana"},
		RepID:  2,
		HasRep: true,
	}

	ctx := WithSession(context.Background(), s)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Session in context")
	}
	if got.User.ID != 1 {
		t.Errorf("User.ID = %d, want 1", got.User.ID)
	}
	if got.RepID != 2 {
		t.Errorf("RepID = %d, want 2", got.RepID)
	}
	if RepID(ctx) != 2 {
		t.Errorf("RepID(ctx) = %d, want 2", RepID(ctx))
	}
	if UserID(ctx) != 1 {
		t.Errorf("UserID(ctx) = %d, want 1", UserID(ctx))
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Session")
	}
	if RepID(context.Background()) != 0 {
		t.Error("expected zero RepID for empty context")
	}
}

func TestRepIDWithoutHousehold(t *testing.T) {
	ctx := WithSession(context.Background(), Session{Token: "t", RepID: 5})
	if got := RepID(ctx); got != 0 {
		t.Errorf("RepID = %d, want 0 when HasRep is false", got)
	}
}
