package dtos

import "github.com/birrama/careers/internal/wizard"

type StepRequest struct {
	Step string `json:"step" binding:"required"`
}

// InputRequest is one form edit. Value may be empty: clearing a field is an edit too.
type InputRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value"`
}

// ActionResponse answers the submit and recommend buttons with the banner text and the
// screen to show next.
type ActionResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	View    wizard.View `json:"view"`
}
