package analysis

import (
	"testing"

	"concurso-backend/internal/models"
)

func TestFilterAttempts_NoActiveProjectYieldsEmpty(t *testing.T) {
	attempts := []models.Attempt{
		{ID: "a1", ProjectID: "p1"},
		{ID: "a2", ProjectID: ""},
	}

	if got := FilterAttempts(attempts, ""); len(got) != 0 {
		t.Errorf("expected empty result with no active project, got %d items", len(got))
	}
	if got := FilterAttempts(attempts, "   "); len(got) != 0 {
		t.Errorf("expected empty result with blank active project, got %d items", len(got))
	}
}

func TestFilterAttempts_TrimEquality(t *testing.T) {
	attempts := []models.Attempt{
		{ID: "a1", ProjectID: "p1"},
		{ID: "a2", ProjectID: " p1 "},
		{ID: "a3", ProjectID: "p2"},
		{ID: "a4", ProjectID: ""},
	}

	got := FilterAttempts(attempts, " p1")
	if len(got) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a2" {
		t.Errorf("unexpected filtered set: %v, %v", got[0].ID, got[1].ID)
	}
}

func TestFilterFiles(t *testing.T) {
	files := []models.StudyFile{
		{ID: "f1", ProjectID: "p1"},
		{ID: "f2", ProjectID: "p2"},
		{ID: "f3", ProjectID: " p1"},
	}

	if got := FilterFiles(files, ""); len(got) != 0 {
		t.Errorf("expected strict empty set without active project, got %d", len(got))
	}

	got := FilterFiles(files, "p1")
	if len(got) != 2 || got[0].ID != "f1" || got[1].ID != "f3" {
		t.Errorf("unexpected filtered files: %+v", got)
	}
}
