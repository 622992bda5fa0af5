package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/models"
	"github.com/birrama/careers/internal/storage"
	"github.com/birrama/careers/internal/wizard"
)

type uploadCall struct {
	file   storage.File
	folder string
}

type fakeUploader struct {
	calls []uploadCall
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, file storage.File, folder string) (string, error) {
	f.calls = append(f.calls, uploadCall{file: file, folder: folder})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, len(f.calls), file.Name), nil
}

var errFileGone = errors.New("pending file not found")

type fakeFiles map[string][]byte

func (f fakeFiles) GetFile(ctx context.Context, id string) ([]byte, error) {
	data, ok := f[id]
	if !ok {
		return nil, errFileGone
	}
	return data, nil
}

type insertCall struct {
	table  string
	record any
}

type fakeRecords struct {
	calls []insertCall
	err   error
}

func (f *fakeRecords) Insert(ctx context.Context, table string, record any) error {
	f.calls = append(f.calls, insertCall{table: table, record: record})
	return f.err
}

type fakeNotifier struct {
	calls []Confirmation
	err   error
}

func (f *fakeNotifier) Send(ctx context.Context, c Confirmation) (NotifyResult, error) {
	f.calls = append(f.calls, c)
	if f.err != nil {
		return NotifyResult{}, f.err
	}
	return NotifyResult{Success: true, Message: MessageMailSent}, nil
}

type fixture struct {
	catalog  *catalog.Catalog
	files    fakeFiles
	uploader *fakeUploader
	records  *fakeRecords
	notifier *fakeNotifier
	svc      *SubmissionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	f := &fixture{catalog: c, files: fakeFiles{}, uploader: &fakeUploader{}, records: &fakeRecords{}, notifier: &fakeNotifier{}}
	f.svc = NewSubmissionService(f.uploader, f.files, f.records, f.notifier, c)
	return f
}

// attach stores data as a pending file and points the wizard's field at it.
func (f *fixture) attach(t *testing.T, w *wizard.Wizard, field, name, data string) {
	t.Helper()
	id := fmt.Sprintf("%s-%d", field, len(f.files)+1)
	f.files[id] = []byte(data)
	if err := w.AttachFile(field, wizard.LocalFile{ID: id, Name: name, Size: int64(len(data))}); err != nil {
		t.Fatalf("AttachFile: %v", err)
	}
}

func (f *fixture) fellowshipWizard(t *testing.T, index int) *wizard.Wizard {
	t.Helper()
	w := wizard.New()
	if err := w.SelectJob(f.catalog, catalog.KindFellowship, index); err != nil {
		t.Fatalf("SelectJob: %v", err)
	}
	w.SetStep(wizard.StepSelf)
	return w
}

func (f *fixture) fulltimeWizard(t *testing.T) *wizard.Wizard {
	t.Helper()
	w := wizard.New()
	if err := w.SelectJob(f.catalog, catalog.KindFulltime, 0); err != nil {
		t.Fatalf("SelectJob: %v", err)
	}
	w.SetStep(wizard.StepSelf)
	w.HandleInput("name", "B")
	w.HandleInput("email", "b@x.com")
	w.HandleInput("phone", "555")
	for i := 0; i < catalog.QuestionCount; i++ {
		w.HandleInput(fmt.Sprintf("answer_fulltime_%d", i), fmt.Sprintf("answer %d", i+1))
	}
	return w
}

// submit drives the same begin/submit/complete cycle the HTTP handler uses.
func (f *fixture) submit(t *testing.T, w *wizard.Wizard) error {
	t.Helper()
	sub, err := w.BeginSubmit()
	if err != nil {
		t.Fatalf("BeginSubmit: %v", err)
	}
	outcome, err := f.svc.Submit(context.Background(), sub)
	w.CompleteSubmit(sub, outcome)
	return err
}

func TestFellowshipScenario(t *testing.T) {
	f := newFixture(t)
	w := f.fellowshipWizard(t, 0)
	w.HandleInput("name", "A")
	w.HandleInput("email", "a@x.com")
	f.attach(t, w, "cv", "resume.pdf", "pdf")

	if err := f.submit(t, w); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(f.uploader.calls) != 1 || f.uploader.calls[0].folder != FolderCV {
		t.Fatalf("expected one upload into cv, got %+v", f.uploader.calls)
	}
	if got := string(f.uploader.calls[0].file.Data); got != "pdf" {
		t.Fatalf("uploaded bytes = %q", got)
	}
	if len(f.records.calls) != 1 || f.records.calls[0].table != models.TableFellowshipApplicants {
		t.Fatalf("expected one fellowship insert, got %+v", f.records.calls)
	}
	rec := f.records.calls[0].record.(*models.FellowshipApplicant)
	if rec.CVLink != "https://cdn.test/cv/1-resume.pdf" || rec.CoverLetterLink != "" {
		t.Fatalf("unexpected links cv=%q cover=%q", rec.CVLink, rec.CoverLetterLink)
	}
	if rec.Role != "data" || rec.Name != "A" || rec.Email != "a@x.com" {
		t.Fatalf("unexpected record %+v", rec)
	}
	want := []Confirmation{{Name: "A", Email: "a@x.com", Role: "data", ApplicationType: "Fellowship"}}
	if !reflect.DeepEqual(f.notifier.calls, want) {
		t.Fatalf("unexpected notifications %+v", f.notifier.calls)
	}
}

func TestFellowshipAnswersAreNested(t *testing.T) {
	f := newFixture(t)
	w := f.fellowshipWizard(t, 1)
	for name, value := range map[string]string{
		"name": "M", "email": "m@x.com", "education": "Bachelor's", "major": "Economics",
		"experience": "2y", "interest": "growth", "portfolio": "https://p", "other": "-", "linkedin": "https://li",
	} {
		w.HandleInput(name, value)
	}
	w.HandleInput("cv", "https://already/uploaded.pdf")

	if err := f.submit(t, w); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.uploader.calls) != 0 {
		t.Fatalf("a URL attachment must not be uploaded again")
	}
	rec := f.records.calls[0].record.(*models.FellowshipApplicant)
	wantAnswers := models.FellowshipAnswers{
		Education: "Bachelor's", Major: "Economics", Experience: "2y", Interest: "growth",
		Portfolio: "https://p", Other: "-", LinkedIn: "https://li",
	}
	if rec.Answers != wantAnswers {
		t.Fatalf("unexpected answers %+v", rec.Answers)
	}
	if rec.Role != "marketing" || rec.CVLink != "https://already/uploaded.pdf" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestFulltimeKeepsAnswerOrder(t *testing.T) {
	f := newFixture(t)
	w := f.fulltimeWizard(t)
	f.attach(t, w, "cv", "cv.docx", "x")
	f.attach(t, w, "coverletter", "letter.pdf", "y")

	if err := f.submit(t, w); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(f.uploader.calls) != 2 || f.uploader.calls[1].folder != FolderCoverLetters {
		t.Fatalf("expected cv then cover letter upload, got %+v", f.uploader.calls)
	}
	if len(f.records.calls) != 1 || f.records.calls[0].table != models.TableFulltimeApplicants {
		t.Fatalf("expected one full-time insert, got %+v", f.records.calls)
	}
	rec := f.records.calls[0].record.(*models.FulltimeApplicant)
	for i, got := range rec.Answers() {
		if want := fmt.Sprintf("answer %d", i+1); got != want {
			t.Fatalf("q%d = %q, want %q", i+1, got, want)
		}
	}
	if rec.Role != catalog.FulltimeRole {
		t.Fatalf("role = %q", rec.Role)
	}
	if got := f.notifier.calls[0]; got.Role != "fulltime" || got.ApplicationType != "Full-time" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestResetAfterSuccess(t *testing.T) {
	f := newFixture(t)
	w := f.fulltimeWizard(t)
	if err := f.submit(t, w); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !reflect.DeepEqual(w.Draft(), wizard.NewDraft()) {
		t.Fatalf("draft not reset: %+v", w.Draft())
	}
	if !w.Selection().IsNone() || w.Step() != wizard.StepRole || !w.Submitted() || w.Loading() {
		t.Fatalf("unexpected wizard state step=%s submitted=%v loading=%v", w.Step(), w.Submitted(), w.Loading())
	}
}

func TestUploadFailureStopsBeforeInsert(t *testing.T) {
	f := newFixture(t)
	f.uploader.err = &storage.UploadError{Key: "cv/1-x.pdf", Code: 403, Message: "denied"}
	w := f.fellowshipWizard(t, 0)
	w.HandleInput("name", "A")
	w.HandleInput("email", "a@x.com")
	f.attach(t, w, "cv", "x.pdf", "x")

	err := f.submit(t, w)
	var ue *storage.UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Error submitting fellowship application: ") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if len(f.records.calls) != 0 || len(f.notifier.calls) != 0 {
		t.Fatalf("no insert or notification expected after an upload failure")
	}
	if w.Draft().CV.Kind() != wizard.AttachmentFile || w.Submitted() {
		t.Fatalf("draft must keep the local file")
	}
}

func TestPersistFailureKeepsDraftAndSkipsNotify(t *testing.T) {
	f := newFixture(t)
	f.records.err = errors.New(`duplicate key value violates unique constraint "fellowship_applicants_email_key"`)
	w := f.fellowshipWizard(t, 0)
	w.HandleInput("name", "A")
	w.HandleInput("email", "a@x.com")
	f.attach(t, w, "cv", "x.pdf", "x")

	err := f.submit(t, w)
	if err == nil || !strings.Contains(err.Error(), "duplicate key value") {
		t.Fatalf("expected raw driver message, got %v", err)
	}
	if len(f.notifier.calls) != 0 {
		t.Fatalf("notification must not be attempted after a failed insert")
	}
	if w.Draft().Name != "A" || w.Submitted() || w.Loading() {
		t.Fatalf("draft must survive a failed insert")
	}
	url, ok := w.Draft().CV.URL()
	if !ok || url != "https://cdn.test/cv/1-x.pdf" {
		t.Fatalf("uploaded URL not kept on the draft: %v %q", ok, url)
	}

	f.records.err = nil
	if err := f.submit(t, w); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if len(f.uploader.calls) != 1 {
		t.Fatalf("retry uploaded the file again: %d uploads", len(f.uploader.calls))
	}
}

func TestNotifierFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = ErrSendFailed
	w := f.fellowshipWizard(t, 0)
	w.HandleInput("name", "A")
	w.HandleInput("email", "a@x.com")

	if err := f.submit(t, w); err != nil {
		t.Fatalf("notification failure leaked: %v", err)
	}
	if !w.Submitted() || len(f.notifier.calls) != 1 {
		t.Fatalf("expected success after exactly one notification attempt")
	}
}

func TestNoSelectionMakesNoCalls(t *testing.T) {
	f := newFixture(t)
	w := wizard.New()
	w.SetStep(wizard.StepSelf)
	w.HandleInput("name", "A")
	f.attach(t, w, "cv", "x.pdf", "x")

	if got := w.View(f.catalog).Screen; got != wizard.ScreenNoJobSelected {
		t.Fatalf("expected no-job-selected screen, got %s", got)
	}
	err := f.submit(t, w)
	if !errors.Is(err, ErrNoJobSelected) {
		t.Fatalf("expected ErrNoJobSelected, got %v", err)
	}
	if len(f.uploader.calls)+len(f.records.calls)+len(f.notifier.calls) != 0 {
		t.Fatalf("expected zero external calls")
	}
}

func TestIncompleteFulltimeRejectedBeforeUpload(t *testing.T) {
	f := newFixture(t)
	w := f.fulltimeWizard(t)
	w.HandleInput("answer_fulltime_4", "")
	f.attach(t, w, "cv", "x.pdf", "x")

	err := f.submit(t, w)
	if !errors.Is(err, ErrIncomplete) || !strings.Contains(err.Error(), "q5") {
		t.Fatalf("expected missing q5, got %v", err)
	}
	if len(f.uploader.calls)+len(f.records.calls) != 0 {
		t.Fatalf("incomplete application reached storage")
	}
}

func TestMissingPendingFileStopsBeforeUpload(t *testing.T) {
	f := newFixture(t)
	w := f.fellowshipWizard(t, 0)
	w.HandleInput("name", "A")
	w.HandleInput("email", "a@x.com")
	f.attach(t, w, "cv", "x.pdf", "x")
	clear(f.files)

	err := f.submit(t, w)
	if !errors.Is(err, errFileGone) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if len(f.uploader.calls)+len(f.records.calls) != 0 {
		t.Fatalf("nothing should be uploaded or stored without the file bytes")
	}
	if w.Loading() || w.Draft().CV.Kind() != wizard.AttachmentFile {
		t.Fatalf("draft must keep the attachment for another try")
	}
}
