package models

// DefaultProjectID is assigned to legacy attempts and files that predate
// project scoping.
const DefaultProjectID = "default"

// DefaultProjectName seeds the first project on an empty installation.
const DefaultProjectName = "Meu Primeiro Concurso"

// ProjectPalette rotates by current project count when a project is created.
var ProjectPalette = []string{"#4f46e5", "#10b981", "#f59e0b", "#ef4444", "#8b5cf6"}

// Project is a named exam campaign, the unit of data isolation. Files and
// attempts carry its id; deleting a project cascades to both.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type RenameProjectRequest struct {
	Name string `json:"name"`
}
