package dtos

// ConfirmationRequest carries no binding tags: missing fields get their own 400 message.
type ConfirmationRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ApplicationType string `json:"applicationType"`
}

type ConfirmationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
