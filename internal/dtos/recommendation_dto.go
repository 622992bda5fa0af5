package dtos

// RecommendationRequest uses the field names of the recommend form.
type RecommendationRequest struct {
	RecName     string `json:"recName" binding:"required"`
	RecEmail    string `json:"recEmail" binding:"required"`
	RecPhone    string `json:"recPhone" binding:"required"`
	RecLinkedIn string `json:"recLinkedIn"`

	// Optional details of the person being recommended
	RecommendedName  string `json:"recommendedName"`
	RecommendedEmail string `json:"recommendedEmail"`
	RecommendedPhone string `json:"recommendedPhone"`
}
