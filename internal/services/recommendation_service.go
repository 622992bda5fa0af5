package services

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/birrama/careers/internal/catalog"
	"github.com/birrama/careers/internal/models"
	"github.com/birrama/careers/internal/wizard"
)

// DefaultRecommendationRole is used when a referral arrives with no job selected.
const DefaultRecommendationRole = "data"

// Referral is the recommend form as posted. Recommended* fields are optional and fall back to
// the recommender's own values.
type Referral struct {
	RecommenderName     string
	RecommenderEmail    string
	RecommenderPhone    string
	RecommenderLinkedIn string

	RecommendedName  string
	RecommendedEmail string
	RecommendedPhone string
}

type RecommendationError struct {
	Err error
}

func (e *RecommendationError) Error() string {
	return "Error submitting recommendation: " + e.Err.Error()
}

func (e *RecommendationError) Unwrap() error { return e.Err }

type RecommendationService struct {
	Records RecordInserter
	Catalog *catalog.Catalog

	validate *validator.Validate
}

func NewRecommendationService(records RecordInserter, c *catalog.Catalog) *RecommendationService {
	return &RecommendationService{Records: records, Catalog: c, validate: newValidator()}
}

// RoleFor picks the role tag for a referral from the current selection.
func (s *RecommendationService) RoleFor(sel wizard.Selection) string {
	if _, ok := sel.Fellowship(); ok {
		if listing, found := sel.Listing(s.Catalog); found {
			return listing.Form
		}
	}
	if _, ok := sel.Fulltime(); ok {
		return catalog.FulltimeRole
	}
	return DefaultRecommendationRole
}

func (s *RecommendationService) Submit(ctx context.Context, ref Referral, sel wizard.Selection) (*models.Recommendation, error) {
	rec := &models.Recommendation{
		RecommenderName:  ref.RecommenderName,
		RecommenderEmail: ref.RecommenderEmail,
		RecommenderPhone: ref.RecommenderPhone,
		RecommendedName:  fallback(ref.RecommendedName, ref.RecommenderName),
		RecommendedEmail: fallback(ref.RecommendedEmail, ref.RecommenderEmail),
		RecommendedPhone: fallback(ref.RecommendedPhone, ref.RecommenderPhone),
		Role:             s.RoleFor(sel),
	}
	if ref.RecommenderLinkedIn != "" {
		linkedIn := ref.RecommenderLinkedIn
		rec.RecommendedLinkedIn = &linkedIn
	}

	if err := checkRequired(s.validate, rec); err != nil {
		return nil, &RecommendationError{Err: err}
	}
	if err := s.Records.Insert(ctx, models.TableRecommendations, rec); err != nil {
		log.Printf("❌ Recommendation submission error: %v", err)
		return nil, &RecommendationError{Err: err}
	}
	log.Printf("✅ Stored recommendation from %s for role %s", rec.RecommenderEmail, rec.Role)
	return rec, nil
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
