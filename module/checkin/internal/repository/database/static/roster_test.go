package static

import (
	"context"
	"testing"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

func TestList_Default(t *testing.T) {
	got, err := NewRosterRepo(nil).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 identities, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, ident := range got {
		if seen[ident.ID] {
			t.Errorf("duplicate id %s", ident.ID)
		}
		seen[ident.ID] = true
	}
}

func TestList_Custom(t *testing.T) {
	repo := NewRosterRepo([]domain.Identity{{ID: "x", DisplayName: "X"}})
	got, _ := repo.List(context.Background())
	if len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("unexpected roster %v", got)
	}
}
