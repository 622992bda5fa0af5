package dtos

type SelectJobRequest struct {
	Kind  string `json:"kind" binding:"required,oneof=fellowship fulltime"`
	Index *int   `json:"index" binding:"required,min=0"`
}

type JobDetailResponse struct {
	Kind        string   `json:"kind"`
	Index       int      `json:"index"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Form        string   `json:"form"`
	Questions   []string `json:"questions,omitempty"`
}
