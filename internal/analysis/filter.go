package analysis

import (
	"strings"

	"concurso-backend/internal/models"
)

// FilterAttempts returns the attempts belonging to the active project.
// Both sides of the comparison are trimmed. When no project is active the
// result is empty; there is no "show everything" fallback.
func FilterAttempts(attempts []models.Attempt, activeProjectID string) []models.Attempt {
	target := strings.TrimSpace(activeProjectID)
	if target == "" {
		return nil
	}
	var out []models.Attempt
	for _, a := range attempts {
		if strings.TrimSpace(a.ProjectID) == target {
			out = append(out, a)
		}
	}
	return out
}

// FilterFiles is the file-side counterpart of FilterAttempts.
func FilterFiles(files []models.StudyFile, activeProjectID string) []models.StudyFile {
	target := strings.TrimSpace(activeProjectID)
	if target == "" {
		return nil
	}
	var out []models.StudyFile
	for _, f := range files {
		if strings.TrimSpace(f.ProjectID) == target {
			out = append(out, f)
		}
	}
	return out
}
