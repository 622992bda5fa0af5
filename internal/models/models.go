package models

import (
	"time"
)

const (
	TableFellowshipApplicants = "fellowship_applicants"
	TableFulltimeApplicants   = "fulltime_applicants"
	TableRecommendations      = "recommendations"
)

// FellowshipAnswers is stored as one JSON document next to the applicant row.
type FellowshipAnswers struct {
	Education  string `json:"education"`
	Major      string `json:"major"`
	Experience string `json:"experience"`
	Interest   string `json:"interest"`
	Portfolio  string `json:"portfolio"`
	Other      string `json:"other"`
	LinkedIn   string `json:"linkedin"`
}

type FellowshipApplicant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name  string `gorm:"not null" json:"name" validate:"required"`
	Email string `gorm:"not null" json:"email" validate:"required"`
	Phone string `json:"phone"`
	Role  string `gorm:"not null;index" json:"role" validate:"required"`

	Answers FellowshipAnswers `gorm:"type:jsonb;serializer:json" json:"answers"`

	CVLink          string `gorm:"column:cv_link" json:"cv_link"`
	CoverLetterLink string `gorm:"column:coverletter_link" json:"coverletter_link"`
}

func (FellowshipApplicant) TableName() string { return TableFellowshipApplicants }

func (a *FellowshipApplicant) SetLinks(cv, coverLetter string) {
	a.CVLink = cv
	a.CoverLetterLink = coverLetter
}

type FulltimeApplicant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name  string `gorm:"not null" json:"name" validate:"required"`
	Email string `gorm:"not null" json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Role  string `gorm:"not null" json:"role" validate:"required"`

	Q1  string `gorm:"column:q1;type:text" json:"q1" validate:"required"`
	Q2  string `gorm:"column:q2;type:text" json:"q2" validate:"required"`
	Q3  string `gorm:"column:q3;type:text" json:"q3" validate:"required"`
	Q4  string `gorm:"column:q4;type:text" json:"q4" validate:"required"`
	Q5  string `gorm:"column:q5;type:text" json:"q5" validate:"required"`
	Q6  string `gorm:"column:q6;type:text" json:"q6" validate:"required"`
	Q7  string `gorm:"column:q7;type:text" json:"q7" validate:"required"`
	Q8  string `gorm:"column:q8;type:text" json:"q8" validate:"required"`
	Q9  string `gorm:"column:q9;type:text" json:"q9" validate:"required"`
	Q10 string `gorm:"column:q10;type:text" json:"q10" validate:"required"`
	Q11 string `gorm:"column:q11;type:text" json:"q11" validate:"required"`
	Q12 string `gorm:"column:q12;type:text" json:"q12" validate:"required"`
	Q13 string `gorm:"column:q13;type:text" json:"q13" validate:"required"`

	CVLink          string `gorm:"column:cv_link" json:"cv_link"`
	CoverLetterLink string `gorm:"column:coverletter_link" json:"coverletter_link"`
}

func (FulltimeApplicant) TableName() string { return TableFulltimeApplicants }

func (a *FulltimeApplicant) SetLinks(cv, coverLetter string) {
	a.CVLink = cv
	a.CoverLetterLink = coverLetter
}

// Answers returns q1..q13 in question order.
func (a FulltimeApplicant) Answers() []string {
	return []string{a.Q1, a.Q2, a.Q3, a.Q4, a.Q5, a.Q6, a.Q7, a.Q8, a.Q9, a.Q10, a.Q11, a.Q12, a.Q13}
}

type Recommendation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	RecommenderName  string `gorm:"not null" json:"recommender_name" validate:"required"`
	RecommenderEmail string `gorm:"not null" json:"recommender_email" validate:"required"`
	RecommenderPhone string `json:"recommender_phone" validate:"required"`

	RecommendedName     string  `json:"recommended_name"`
	RecommendedEmail    string  `json:"recommended_email"`
	RecommendedPhone    string  `json:"recommended_phone"`
	RecommendedLinkedIn *string `gorm:"column:recommended_linkedin" json:"recommended_linkedin"`

	Role string `gorm:"not null" json:"role" validate:"required"`
}

func (Recommendation) TableName() string { return TableRecommendations }
