package library

// Resource is a digital library resource (notes, playlists, cheat sheets).
type Resource struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Type        string   `json:"type"` // PDF, YouTube, Notes, etc.
	URL         string   `json:"url"`
	CourseCode  string   `json:"course_code"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// Event is a campus event a student may be pointed to.
type Event struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Date           string   `json:"date"` // free form, e.g. "2025-01-15" or "Every Saturday"
	Category       string   `json:"category"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	RecommendedFor string   `json:"recommended_for"`
	Tags           []string `json:"tags"`
}

// QueryFilter narrows Resources; empty fields match everything.
type QueryFilter struct {
	CourseCode string
	Tag        string
}
