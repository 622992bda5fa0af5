package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/models"
	"github.com/birrama/careers/internal/storage"
	"github.com/birrama/careers/internal/wizard"
)

const (
	FolderCV           = "cv"
	FolderCoverLetters = "coverletters"
)

var ErrNoJobSelected = errors.New("no job selected")

// RecordInserter is the slice of the record store the pipelines need.
type RecordInserter interface {
	Insert(ctx context.Context, table string, record any) error
}

// PendingFiles hands out the bytes behind a wizard.LocalFile.
type PendingFiles interface {
	GetFile(ctx context.Context, id string) ([]byte, error)
}

type Notifier interface {
	Send(ctx context.Context, c Confirmation) (NotifyResult, error)
}

// SubmissionError is what the applicant sees when the upload or the insert fails.
type SubmissionError struct {
	Kind catalog.Kind
	Err  error
}

func (e *SubmissionError) Error() string {
	label := "fellowship"
	if e.Kind == catalog.KindFulltime {
		label = "full-time"
	}
	return "Error submitting " + label + " application: " + e.Err.Error()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

type SubmissionService struct {
	Storage  storage.Uploader
	Files    PendingFiles
	Records  RecordInserter
	Notifier Notifier
	Catalog  *catalog.Catalog

	validate *validator.Validate
}

func NewSubmissionService(up storage.Uploader, files PendingFiles, records RecordInserter, notifier Notifier, c *catalog.Catalog) *SubmissionService {
	return &SubmissionService{
		Storage:  up,
		Files:    files,
		Records:  records,
		Notifier: notifier,
		Catalog:  c,
		validate: newValidator(),
	}
}

type linkedRecord interface {
	SetLinks(cv, coverLetter string)
}

type application struct {
	kind         catalog.Kind
	table        string
	record       linkedRecord
	confirmation Confirmation
}

// Submit runs upload, persist and notify for one snapshot. The returned outcome always
// carries the attachments as they ended up, so a failed attempt can be retried without
// uploading the same file twice.
func (s *SubmissionService) Submit(ctx context.Context, sub wizard.Submission) (wizard.Outcome, error) {
	outcome := wizard.Outcome{CV: sub.Draft.CV, CoverLetter: sub.Draft.CoverLetter}

	app, err := s.buildApplication(sub)
	if err != nil {
		return outcome, err
	}
	if err := checkRequired(s.validate, app.record); err != nil {
		return outcome, &SubmissionError{Kind: app.kind, Err: err}
	}

	cv, cvURL, err := s.resolveAttachment(ctx, sub.Draft.CV, FolderCV)
	if err != nil {
		return outcome, &SubmissionError{Kind: app.kind, Err: err}
	}
	outcome.CV = cv

	cover, coverURL, err := s.resolveAttachment(ctx, sub.Draft.CoverLetter, FolderCoverLetters)
	if err != nil {
		return outcome, &SubmissionError{Kind: app.kind, Err: err}
	}
	outcome.CoverLetter = cover

	app.record.SetLinks(cvURL, coverURL)
	if err := s.Records.Insert(ctx, app.table, app.record); err != nil {
		log.Printf("❌ %s submission error: %v", app.kind, err)
		return outcome, &SubmissionError{Kind: app.kind, Err: err}
	}
	log.Printf("✅ Stored %s application for %s", app.kind, app.confirmation.Email)

	s.notify(ctx, app.confirmation)
	outcome.Persisted = true
	return outcome, nil
}

func (s *SubmissionService) buildApplication(sub wizard.Submission) (application, error) {
	if sub.Selection.IsNone() {
		return application{}, ErrNoJobSelected
	}
	listing, ok := sub.Selection.Listing(s.Catalog)
	if !ok {
		return application{}, ErrNoJobSelected
	}
	d := sub.Draft

	if sub.Selection.Kind() == catalog.KindFulltime {
		a := d.AnswersFulltime
		return application{
			kind:  catalog.KindFulltime,
			table: models.TableFulltimeApplicants,
			record: &models.FulltimeApplicant{
				Name: d.Name, Email: d.Email, Phone: d.Phone, Role: catalog.FulltimeRole,
				Q1: a[0], Q2: a[1], Q3: a[2], Q4: a[3], Q5: a[4], Q6: a[5], Q7: a[6],
				Q8: a[7], Q9: a[8], Q10: a[9], Q11: a[10], Q12: a[11], Q13: a[12],
			},
			confirmation: Confirmation{Name: d.Name, Email: d.Email, Role: catalog.FulltimeRole, ApplicationType: "Full-time"},
		}, nil
	}

	return application{
		kind:  catalog.KindFellowship,
		table: models.TableFellowshipApplicants,
		record: &models.FellowshipApplicant{
			Name:  d.Name,
			Email: d.Email,
			Phone: d.Phone,
			Role:  listing.Form,
			Answers: models.FellowshipAnswers{
				Education:  d.Education,
				Major:      d.Major,
				Experience: d.Experience,
				Interest:   d.Interest,
				Portfolio:  d.Portfolio,
				Other:      d.Other,
				LinkedIn:   d.LinkedIn,
			},
		},
		confirmation: Confirmation{Name: d.Name, Email: d.Email, Role: listing.Form, ApplicationType: "Fellowship"},
	}, nil
}

// resolveAttachment uploads a pending file and passes URLs and empty slots through.
func (s *SubmissionService) resolveAttachment(ctx context.Context, a wizard.Attachment, folder string) (wizard.Attachment, string, error) {
	switch a.Kind() {
	case wizard.AttachmentFile:
		f, _ := a.File()
		data, err := s.Files.GetFile(ctx, f.ID)
		if err != nil {
			return a, "", fmt.Errorf("read %s: %w", f.Name, err)
		}
		url, err := s.Storage.Upload(ctx, storage.File{Name: f.Name, ContentType: f.ContentType, Data: data}, folder)
		if err != nil {
			return a, "", err
		}
		log.Printf("📎 Uploaded %s to %s", f.Name, url)
		return wizard.URLAttachment(url), url, nil
	case wizard.AttachmentRemote:
		url, _ := a.URL()
		return a, url, nil
	default:
		return a, "", nil
	}
}

// notify sends the confirmation once. Failures are logged and never reach the applicant.
func (s *SubmissionService) notify(ctx context.Context, c Confirmation) {
	if s.Notifier == nil {
		return
	}
	res, err := s.Notifier.Send(ctx, c)
	if err != nil {
		log.Printf("⚠️ Email error: %v", err)
		return
	}
	if res.Message != "" {
		log.Printf("📨 %s", res.Message)
	}
}
