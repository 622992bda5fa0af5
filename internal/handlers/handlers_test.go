package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/database"
	"github.com/birrama/careers/internal/middleware"
	"github.com/birrama/careers/internal/models"
	"github.com/birrama/careers/internal/services"
	"github.com/birrama/careers/internal/session"
	"github.com/birrama/careers/internal/storage"
	"github.com/birrama/careers/internal/wizard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	filesDir string
	cookie   *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(database.Options{Driver: "sqlite", DSN: dsn, AutoMigrate: true})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	filesDir := t.TempDir()
	records := database.NewRecordStore(db)
	notifier := services.NewNotificationService(nil, "", c)
	store := session.NewMemoryStore(time.Hour)

	router := NewRouter(RouterConfig{
		DB:              db,
		Catalog:         c,
		Sessions:        session.NewManager(store),
		Files:           store,
		Submissions:     services.NewSubmissionService(storage.NewLocalUploader(filesDir, "http://example.test/files"), store, records, notifier, c),
		Recommendations: services.NewRecommendationService(records, c),
		Notifier:        notifier,
		SessionTTL:      time.Hour,
		MaxUploadBytes:  1 << 20,
		FilesDir:        filesDir,
	})
	return &testServer{router: router, db: db, filesDir: filesDir}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			s.cookie = c
		}
	}
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req)
}

func (s *testServer) upload(t *testing.T, field, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/wizard/attachments/"+field, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(t, req)
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) wizard.View {
	t.Helper()
	var v struct {
		Step   wizard.Step   `json:"step"`
		Screen wizard.Screen `json:"screen"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode view: %v (%s)", err, w.Body.String())
	}
	return wizard.View{Step: v.Step, Screen: v.Screen}
}

type actionBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	View    struct {
		Step   wizard.Step   `json:"step"`
		Screen wizard.Screen `json:"screen"`
	} `json:"view"`
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) actionBody {
	t.Helper()
	var body actionBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode action: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.doJSON(t, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestJobEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodGet, "/api/v1/jobs", nil)
	var list struct {
		Fellowship []catalog.JobListing `json:"fellowship"`
		Fulltime   []catalog.JobListing `json:"fulltime"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Fellowship) != 8 || len(list.Fulltime) != 1 {
		t.Fatalf("unexpected catalog sizes %d/%d", len(list.Fellowship), len(list.Fulltime))
	}

	w = s.doJSON(t, http.MethodGet, "/api/v1/jobs/fulltime/0", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"form":"fulltime_manager"`) {
		t.Fatalf("detail = %d %s", w.Code, w.Body.String())
	}
	if w := s.doJSON(t, http.MethodGet, "/api/v1/jobs/fellowship/42", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := s.doJSON(t, http.MethodGet, "/api/v1/jobs/internship/0", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFellowshipApplicationFlow(t *testing.T) {
	s := newTestServer(t)

	if v := decodeView(t, s.doJSON(t, http.MethodGet, "/api/v1/wizard", nil)); v.Screen != wizard.ScreenRole {
		t.Fatalf("expected role screen, got %s", v.Screen)
	}
	if s.cookie == nil {
		t.Fatalf("no session cookie issued")
	}

	s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "job"})
	w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fellowship", "index": 0})
	if v := decodeView(t, w); v.Screen != wizard.ScreenDescription {
		t.Fatalf("expected description, got %s (%s)", v.Screen, w.Body.String())
	}
	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "self"})
	if v := decodeView(t, w); v.Screen != wizard.ScreenFellowshipForm {
		t.Fatalf("expected fellowship form, got %s", v.Screen)
	}
	if !strings.Contains(w.Body.String(), `"show_cover_letter":true`) {
		t.Fatalf("data track should offer a cover letter: %s", w.Body.String())
	}

	s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": "name", "value": "A"})
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": "email", "value": "a@x.com"})
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": "major", "value": "Statistics"})
	if w := s.upload(t, "cv", "resume.pdf", []byte("%PDF-1.4")); w.Code != http.StatusOK {
		t.Fatalf("upload = %d %s", w.Code, w.Body.String())
	}

	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	body := decodeAction(t, w)
	if !body.Success || body.Message != "Fellowship application submitted successfully!" {
		t.Fatalf("unexpected response %+v", body)
	}
	if body.View.Screen != wizard.ScreenConfirmation || body.View.Step != wizard.StepRole {
		t.Fatalf("expected confirmation over role, got %+v", body.View)
	}

	var rec models.FellowshipApplicant
	if err := s.db.First(&rec).Error; err != nil {
		t.Fatalf("no record stored: %v", err)
	}
	if rec.Role != "data" || rec.Answers.Major != "Statistics" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if !strings.HasPrefix(rec.CVLink, "http://example.test/files/cv/") || !strings.HasSuffix(rec.CVLink, ".pdf") {
		t.Fatalf("unexpected cv link %q", rec.CVLink)
	}
	key := strings.TrimPrefix(rec.CVLink, "http://example.test/files/")
	if data, err := os.ReadFile(filepath.Join(s.filesDir, filepath.FromSlash(key))); err != nil || string(data) != "%PDF-1.4" {
		t.Fatalf("uploaded file not on disk: %v", err)
	}

	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/reset", nil)
	if v := decodeView(t, w); v.Screen != wizard.ScreenRole {
		t.Fatalf("dismissing the confirmation should show the role screen, got %s", v.Screen)
	}
}

func TestFulltimeIncompleteThenComplete(t *testing.T) {
	s := newTestServer(t)
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fulltime", "index": 0})
	w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "self"})
	if v := decodeView(t, w); v.Screen != wizard.ScreenFulltimeForm {
		t.Fatalf("expected full-time form, got %s", v.Screen)
	}
	for name, value := range map[string]string{"name": "B", "email": "b@x.com", "phone": "555"} {
		s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": name, "value": value})
	}
	for i := 0; i < 12; i++ {
		s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": fmt.Sprintf("answer_fulltime_%d", i), "value": fmt.Sprintf("a%d", i+1)})
	}

	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/submit", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing answer, got %d %s", w.Code, w.Body.String())
	}
	if body := decodeAction(t, w); !strings.HasPrefix(body.Error, "Error submitting full-time application: ") || body.View.Screen != wizard.ScreenFulltimeForm {
		t.Fatalf("unexpected failure body %+v", body)
	}

	s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"name": "answer_fulltime_12", "value": "a13"})
	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/submit", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", w.Code, w.Body.String())
	}
	var rec models.FulltimeApplicant
	if err := s.db.First(&rec).Error; err != nil {
		t.Fatalf("no record: %v", err)
	}
	if rec.Q1 != "a1" || rec.Q13 != "a13" || rec.Role != "fulltime" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestSubmitWithoutSelection(t *testing.T) {
	s := newTestServer(t)
	w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "self"})
	if v := decodeView(t, w); v.Screen != wizard.ScreenNoJobSelected {
		t.Fatalf("expected no-job-selected, got %s", v.Screen)
	}
	w = s.doJSON(t, http.MethodPost, "/api/v1/wizard/submit", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var count int64
	s.db.Model(&models.FellowshipApplicant{}).Count(&count)
	if count != 0 {
		t.Fatalf("no record expected")
	}
	if body := decodeAction(t, w); body.View.Screen != wizard.ScreenNoJobSelected {
		t.Fatalf("unexpected view %+v", body.View)
	}
}

func TestWizardInputErrors(t *testing.T) {
	s := newTestServer(t)
	if w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "elsewhere"}); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown step: %d", w.Code)
	}
	if w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fellowship", "index": 99}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown job: %d", w.Code)
	}
	if w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fellowship"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing index: %d", w.Code)
	}
	if w := s.upload(t, "photo", "me.png", []byte("png")); w.Code != http.StatusNotFound {
		t.Fatalf("unknown attachment: %d", w.Code)
	}
	if w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/input", map[string]string{"value": "x"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing name: %d", w.Code)
	}
}

func TestRemoveAttachment(t *testing.T) {
	s := newTestServer(t)
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fellowship", "index": 0})
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "self"})
	s.upload(t, "coverletter", "letter.pdf", []byte("x"))

	w := s.doJSON(t, http.MethodDelete, "/api/v1/wizard/attachments/coverletter", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"coverletter":{"kind":"none"}`) {
		t.Fatalf("cover letter not cleared: %d %s", w.Code, w.Body.String())
	}
}

func TestEmptyAttachmentRejected(t *testing.T) {
	s := newTestServer(t)
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fellowship", "index": 0})
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "self"})

	w := s.upload(t, "cv", "empty.pdf", nil)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "File is empty") {
		t.Fatalf("expected 400 for an empty file, got %d %s", w.Code, w.Body.String())
	}
	w = s.doJSON(t, http.MethodGet, "/api/v1/wizard", nil)
	if !strings.Contains(w.Body.String(), `"cv":{"kind":"none"}`) {
		t.Fatalf("empty file reached the draft: %s", w.Body.String())
	}
}

func TestRecommendation(t *testing.T) {
	s := newTestServer(t)
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/select", map[string]any{"kind": "fulltime", "index": 0})
	s.doJSON(t, http.MethodPost, "/api/v1/wizard/step", map[string]string{"step": "recommend"})

	w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/recommend", map[string]string{
		"recName": "R", "recEmail": "r@x.com", "recPhone": "1", "recLinkedIn": "https://li/r",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("recommend = %d %s", w.Code, w.Body.String())
	}
	body := decodeAction(t, w)
	if body.Message != "Recommendation submitted successfully!" || body.View.Step != wizard.StepDesc {
		t.Fatalf("unexpected response %+v", body)
	}

	var rec models.Recommendation
	if err := s.db.First(&rec).Error; err != nil {
		t.Fatalf("no record: %v", err)
	}
	if rec.Role != "fulltime" || rec.RecommendedEmail != "r@x.com" || rec.RecommendedLinkedIn == nil {
		t.Fatalf("unexpected record %+v", rec)
	}

	if w := s.doJSON(t, http.MethodPost, "/api/v1/wizard/recommend", map[string]string{"recName": "R"}); w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete referral: %d", w.Code)
	}
}

func TestSendConfirmation(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/api/send-confirmation", map[string]string{"name": "A", "email": "a@x.com"})
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Missing required fields") {
		t.Fatalf("missing fields = %d %s", w.Code, w.Body.String())
	}

	w = s.doJSON(t, http.MethodPost, "/api/send-confirmation", map[string]string{
		"name": "A", "email": "a@x.com", "role": "data", "applicationType": "Fellowship",
	})
	var res struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if w.Code != http.StatusOK || !res.Success || res.Message != services.MessageMailNotConfigured {
		t.Fatalf("unconfigured = %d %s", w.Code, w.Body.String())
	}
}
