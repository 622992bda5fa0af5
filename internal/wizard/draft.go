package wizard

import (
	"regexp"
	"strconv"

	"github.com/birrama/careers/internal/catalog"
)

// Draft is the in-progress application for one session.
type Draft struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`

	Education         string `json:"education"`
	EducationFulltime string `json:"education_fulltime"`
	Major             string `json:"major"`
	Experience        string `json:"experience"`
	Interest          string `json:"interest"`
	Portfolio         string `json:"portfolio"`
	Other             string `json:"other"`
	SalesExperience   string `json:"sales_experience"`

	// Optional per-track free text (figma_experience, cloud_experience, ...).
	Specializations map[string]string `json:"specializations,omitempty"`
	// Anything the form posts that the draft has no slot for.
	Extra map[string]string `json:"extra,omitempty"`

	CV          Attachment `json:"cv"`
	CoverLetter Attachment `json:"coverletter"`

	AnswersFulltime [catalog.QuestionCount]string `json:"answers_fulltime"`
}

func NewDraft() Draft {
	return Draft{}
}

var specializationFields = map[string]bool{
	"figma_experience":    true,
	"cloud_experience":    true,
	"linux_experience":    true,
	"network_experience":  true,
	"appstore_experience": true,
}

var answerField = regexp.MustCompile(`^answer(?:_fulltime)?_?(\d+)$`)

// set applies one form field. It is the only place a draft field is written by name.
func (d *Draft) set(name, value string) {
	if m := answerField.FindStringSubmatch(name); m != nil {
		if idx, err := strconv.Atoi(m[1]); err == nil && idx >= 0 && idx < len(d.AnswersFulltime) {
			d.AnswersFulltime[idx] = value
			return
		}
	}

	switch name {
	case "name":
		d.Name = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "linkedin":
		d.LinkedIn = value
	case "education":
		d.Education = value
	case "education_fulltime":
		d.EducationFulltime = value
	case "major":
		d.Major = value
	case "experience":
		d.Experience = value
	case "interest":
		d.Interest = value
	case "portfolio":
		d.Portfolio = value
	case "other":
		d.Other = value
	case "sales_experience":
		d.SalesExperience = value
	case "cv":
		d.CV = URLAttachment(value)
	case "coverletter":
		d.CoverLetter = URLAttachment(value)
	default:
		if specializationFields[name] {
			if d.Specializations == nil {
				d.Specializations = map[string]string{}
			}
			d.Specializations[name] = value
			return
		}
		if d.Extra == nil {
			d.Extra = map[string]string{}
		}
		d.Extra[name] = value
	}
}

// clone copies the draft so a snapshot does not share maps with the live one.
func (d Draft) clone() Draft {
	out := d
	out.Specializations = copyMap(d.Specializations)
	out.Extra = copyMap(d.Extra)
	return out
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
