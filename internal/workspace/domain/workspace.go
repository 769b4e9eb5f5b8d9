package domain

// Workspace top-level container grouping channels
type Workspace struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Kind      WorkspaceKind `json:"type"`
	CreatedBy string        `json:"created_by"`
	CourseID  string        `json:"course_id,omitempty"`
	Batches   []Batch       `json:"batches,omitempty"`
}

// Batch course roster that can be granted channel access as a unit
type Batch struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}
