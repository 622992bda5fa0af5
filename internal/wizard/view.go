package wizard

import "github.com/birrama/careers/internal/catalog"

type Screen string

const (
	ScreenRole            Screen = "role"
	ScreenJobList         Screen = "job-list"
	ScreenFulltimeJobList Screen = "fulltime-job-list"
	ScreenDescription     Screen = "description"
	ScreenFellowshipForm  Screen = "fellowship-form"
	ScreenFulltimeForm    Screen = "fulltime-form"
	ScreenNoJobSelected   Screen = "no-job-selected"
	ScreenConfirmation    Screen = "confirmation"
	ScreenRecommend       Screen = "recommend"
)

type JobSummary struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Form  string `json:"form"`
}

type AttachmentView struct {
	Kind AttachmentKind `json:"kind"`
	Name string         `json:"name,omitempty"`
	Size int64          `json:"size,omitempty"`
	URL  string         `json:"url,omitempty"`
}

type FormView struct {
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	LinkedIn          string            `json:"linkedin"`
	Education         string            `json:"education"`
	EducationFulltime string            `json:"education_fulltime"`
	Major             string            `json:"major"`
	Experience        string            `json:"experience"`
	Interest          string            `json:"interest"`
	Portfolio         string            `json:"portfolio"`
	Other             string            `json:"other"`
	SalesExperience   string            `json:"sales_experience"`
	Specializations   map[string]string `json:"specializations,omitempty"`
	CV                AttachmentView    `json:"cv"`
	CoverLetter       AttachmentView    `json:"coverletter"`
	AnswersFulltime   []string          `json:"answers_fulltime"`
}

// View is everything a client needs to draw the current screen.
type View struct {
	Step      Step      `json:"step"`
	Screen    Screen    `json:"screen"`
	Submitted bool      `json:"submitted"`
	Loading   bool      `json:"loading"`
	Selection Selection `json:"selection"`
	Back      Step      `json:"back,omitempty"`

	Jobs []JobSummary        `json:"jobs,omitempty"`
	Job  *catalog.JobListing `json:"job,omitempty"`

	Fields           []catalog.Field `json:"fields,omitempty"`
	EducationOptions []string        `json:"education_options,omitempty"`
	Questions        []string        `json:"questions,omitempty"`
	ShowCoverLetter  bool            `json:"show_cover_letter,omitempty"`
	Form             *FormView       `json:"form,omitempty"`
}

// View renders the wizard against the job catalog.
func (w *Wizard) View(c *catalog.Catalog) View {
	v := View{
		Step:      w.step,
		Submitted: w.submitted,
		Loading:   w.loading,
		Selection: w.selection,
	}

	if w.submitted {
		v.Screen = ScreenConfirmation
		return v
	}

	job, selected := w.selection.Listing(c)
	if selected {
		v.Job = &job
	}

	switch w.step {
	case StepRole:
		v.Screen = ScreenRole
	case StepJob:
		v.Screen = ScreenJobList
		v.Back = StepRole
		v.Jobs = summaries(c.Fellowship)
	case StepFulltimeJob:
		v.Screen = ScreenFulltimeJobList
		v.Back = StepRole
		v.Jobs = summaries(c.Fulltime)
	case StepDesc:
		if !selected {
			v.Screen = ScreenNoJobSelected
			v.Back = StepRole
			return v
		}
		v.Screen = ScreenDescription
		v.Back = StepJob
		if w.selection.Kind() == catalog.KindFulltime {
			v.Back = StepFulltimeJob
		}
	case StepSelf:
		v.Back = StepDesc
		if !selected {
			v.Screen = ScreenNoJobSelected
			v.Back = StepRole
			return v
		}
		form := w.formView()
		v.Form = &form
		if w.selection.Kind() == catalog.KindFulltime {
			v.Screen = ScreenFulltimeForm
			v.Questions = job.Questions
			v.EducationOptions = c.FulltimeEducationOptions
			v.ShowCoverLetter = true
		} else {
			v.Screen = ScreenFellowshipForm
			v.Fields = c.Fields(job.Form)
			v.EducationOptions = c.EducationOptions
			v.ShowCoverLetter = job.Form == "data"
		}
	case StepRecommend:
		v.Screen = ScreenRecommend
		v.Back = StepDesc
	}
	return v
}

func summaries(list []catalog.JobListing) []JobSummary {
	out := make([]JobSummary, 0, len(list))
	for i, job := range list {
		out = append(out, JobSummary{Index: i, Title: job.Title, Form: job.Form})
	}
	return out
}

func (w *Wizard) formView() FormView {
	d := w.draft
	return FormView{
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		LinkedIn:          d.LinkedIn,
		Education:         d.Education,
		EducationFulltime: d.EducationFulltime,
		Major:             d.Major,
		Experience:        d.Experience,
		Interest:          d.Interest,
		Portfolio:         d.Portfolio,
		Other:             d.Other,
		SalesExperience:   d.SalesExperience,
		Specializations:   copyMap(d.Specializations),
		CV:                attachmentView(d.CV),
		CoverLetter:       attachmentView(d.CoverLetter),
		AnswersFulltime:   append([]string(nil), d.AnswersFulltime[:]...),
	}
}

func attachmentView(a Attachment) AttachmentView {
	v := AttachmentView{Kind: a.Kind()}
	if f, ok := a.File(); ok {
		v.Name = f.Name
		v.Size = f.Size
	}
	if url, ok := a.URL(); ok {
		v.URL = url
	}
	return v
}
