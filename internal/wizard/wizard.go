package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/birrama/careers/internal/catalog"
)

type Step string

const (
	StepRole        Step = "role"
	StepJob         Step = "job"
	StepFulltimeJob Step = "fulltimejob"
	StepDesc        Step = "desc"
	StepSelf        Step = "self"
	StepRecommend   Step = "recommend"
)

var (
	ErrUnknownStep        = errors.New("unknown wizard step")
	ErrUnknownJob         = errors.New("job listing does not exist")
	ErrUnknownAttachment  = errors.New("unknown attachment field")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrEmptyAttachment    = errors.New("attached file is empty")
)

// SubmitTimeout bounds one submit attempt. A loading flag older than this was left behind by
// an attempt that never completed and no longer blocks new ones.
const SubmitTimeout = 2 * time.Minute

func ParseStep(s string) (Step, error) {
	switch Step(s) {
	case StepRole, StepJob, StepFulltimeJob, StepDesc, StepSelf, StepRecommend:
		return Step(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStep, s)
}

// Wizard is the state of one applicant's walk through the job box.
type Wizard struct {
	step      Step
	selection Selection
	draft     Draft
	submitted bool
	loading   bool
	// loadingSince is when the current attempt began; zero when not loading.
	loadingSince time.Time
}

func New() *Wizard {
	return &Wizard{step: StepRole, draft: NewDraft()}
}

func (w *Wizard) Step() Step           { return w.step }
func (w *Wizard) Selection() Selection { return w.selection }
func (w *Wizard) Draft() Draft         { return w.draft.clone() }
func (w *Wizard) Submitted() bool      { return w.submitted }
func (w *Wizard) Loading() bool        { return w.loading }

// SetStep moves to next without any guard. Screens cope with missing selections themselves.
func (w *Wizard) SetStep(next Step) {
	w.step = next
}

// Back follows the "Back" button of the current screen.
func (w *Wizard) Back() {
	switch w.step {
	case StepJob, StepFulltimeJob:
		w.step = StepRole
	case StepDesc:
		if w.selection.Kind() == catalog.KindFulltime {
			w.step = StepFulltimeJob
		} else {
			w.step = StepJob
		}
	case StepSelf, StepRecommend:
		w.step = StepDesc
	}
}

// SelectJob picks a listing, drops any selection of the other kind and opens the description.
func (w *Wizard) SelectJob(c *catalog.Catalog, kind catalog.Kind, index int) error {
	if _, ok := c.Listing(kind, index); !ok {
		return fmt.Errorf("%w: %s #%d", ErrUnknownJob, kind, index)
	}
	switch kind {
	case catalog.KindFellowship:
		w.selection = FellowshipJob(index)
	case catalog.KindFulltime:
		w.selection = FulltimeJob(index)
	}
	w.step = StepDesc
	return nil
}

// HandleInput is the single entry point for form edits.
func (w *Wizard) HandleInput(name, value string) {
	w.draft.set(name, value)
}

// CheckAttachmentField reports ErrUnknownAttachment for anything but cv and coverletter.
func CheckAttachmentField(field string) error {
	_, err := New().attachmentSlot(field)
	return err
}

func (w *Wizard) AttachFile(field string, f LocalFile) error {
	slot, err := w.attachmentSlot(field)
	if err != nil {
		return err
	}
	if f.Size <= 0 {
		return fmt.Errorf("%w: %q", ErrEmptyAttachment, f.Name)
	}
	*slot = FileAttachment(f)
	return nil
}

func (w *Wizard) ClearAttachment(field string) error {
	slot, err := w.attachmentSlot(field)
	if err != nil {
		return err
	}
	*slot = NoAttachment()
	return nil
}

func (w *Wizard) attachmentSlot(field string) (*Attachment, error) {
	switch field {
	case "cv":
		return &w.draft.CV, nil
	case "coverletter":
		return &w.draft.CoverLetter, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAttachment, field)
}

// Reset discards the draft and the selection and goes back to the first screen. It also
// drops a loading flag, so "start over" always leaves a submittable wizard.
func (w *Wizard) Reset() {
	w.draft = NewDraft()
	w.selection = NoSelection()
	w.step = StepRole
	w.submitted = false
	w.loading = false
	w.loadingSince = time.Time{}
}

// Submission is the frozen input of one submit attempt.
type Submission struct {
	Draft     Draft
	Selection Selection
}

// Outcome is what a submit attempt reports back to the wizard.
type Outcome struct {
	// Attachments after upload. Uploaded files come back as URLs even if persistence failed.
	CV          Attachment
	CoverLetter Attachment
	Persisted   bool
}

// BeginSubmit raises the loading flag and hands out a snapshot to submit.
func (w *Wizard) BeginSubmit() (Submission, error) {
	return w.beginSubmitAt(time.Now())
}

func (w *Wizard) beginSubmitAt(now time.Time) (Submission, error) {
	if w.loading && now.Sub(w.loadingSince) < SubmitTimeout {
		return Submission{}, ErrSubmissionInFlight
	}
	w.loading = true
	w.loadingSince = now
	return Submission{Draft: w.draft.clone(), Selection: w.selection}, nil
}

// CompleteSubmit lowers the loading flag. A persisted submission shows the confirmation and
// clears the draft. A failed one keeps the draft and swaps in the URL of every file the
// attempt uploaded, as long as the applicant has not attached a different file since.
func (w *Wizard) CompleteSubmit(sub Submission, o Outcome) {
	w.loading = false
	w.loadingSince = time.Time{}
	if o.Persisted {
		w.Reset()
		w.submitted = true
		return
	}
	writeBack(&w.draft.CV, sub.Draft.CV, o.CV)
	writeBack(&w.draft.CoverLetter, sub.Draft.CoverLetter, o.CoverLetter)
}

func writeBack(live *Attachment, sent, uploaded Attachment) {
	f, ok := sent.File()
	if !ok || uploaded.Kind() != AttachmentRemote {
		return
	}
	if live.holds(f) {
		*live = uploaded
	}
}

type state struct {
	Step      Step      `json:"step"`
	Selection Selection `json:"selection"`
	Draft     Draft     `json:"draft"`
	Submitted bool      `json:"submitted"`
	Loading   bool      `json:"loading"`

	LoadingSince time.Time `json:"loading_since"`
}

func (w *Wizard) MarshalJSON() ([]byte, error) {
	return json.Marshal(state{
		Step:      w.step,
		Selection: w.selection,
		Draft:     w.draft,
		Submitted: w.submitted,
		Loading:   w.loading,

		LoadingSince: w.loadingSince,
	})
}

func (w *Wizard) UnmarshalJSON(data []byte) error {
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	step, err := ParseStep(string(s.Step))
	if err != nil {
		return err
	}
	*w = Wizard{
		step:         step,
		selection:    s.Selection,
		draft:        s.Draft,
		submitted:    s.Submitted,
		loading:      s.Loading,
		loadingSince: s.LoadingSince,
	}
	return nil
}
