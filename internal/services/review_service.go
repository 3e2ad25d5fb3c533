package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

const maxCommentLength = 255

type ReviewService struct {
	reviews  ReviewStore
	listings ListingStore
	users    UserStore
}

func NewReviewService(reviews ReviewStore, listings ListingStore, users UserStore) *ReviewService {
	return &ReviewService{reviews: reviews, listings: listings, users: users}
}

type ReviewInput struct {
	ListingID uint
	SubjectID uint
	Rating    int
	Comment   string
}

// Create stores a review of a completed hand-over. Each author reviews a
// listing at most once.
func (s *ReviewService) Create(ctx context.Context, actor Actor, in ReviewInput) (*models.Review, error) {
	if in.ListingID == 0 || in.SubjectID == 0 {
		return nil, errors.Validation("IdAnuncio and IdAvaliado are required")
	}
	comment, err := validateReview(in.Rating, in.Comment)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.State != models.ListingCompleted {
		return nil, errors.Conflict("the delivery has not been completed yet")
	}
	if !listing.IsParty(actor.UserID) {
		return nil, errors.Forbidden("only the parties of the delivery can review it")
	}
	if in.SubjectID == actor.UserID || !listing.IsParty(in.SubjectID) {
		return nil, errors.Validation("IdAvaliado must be the other party of the delivery")
	}

	exists, err := s.reviews.Exists(ctx, in.ListingID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("you have already reviewed this listing")
	}

	review := &models.Review{
		ListingID: in.ListingID,
		AuthorID:  actor.UserID,
		SubjectID: in.SubjectID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.recalculate(ctx, review.SubjectID)
	return review, nil
}

// Update changes rating and comment. Author only.
func (s *ReviewService) Update(ctx context.Context, actor Actor, id uint, rating int, comment string) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.AuthorID != actor.UserID {
		return nil, errors.Forbidden("only the author can edit this review")
	}
	clean, err := validateReview(rating, comment)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = clean
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.recalculate(ctx, review.SubjectID)
	return review, nil
}

// Delete removes a review. Author or admin.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.AuthorID != actor.UserID && !actor.IsAdmin() {
		return errors.Forbidden("only the author or an admin can delete this review")
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.recalculate(ctx, review.SubjectID)
	return nil
}

func (s *ReviewService) List(ctx context.Context, subjectID *uint, p repositories.Page) ([]models.Review, int64, error) {
	return s.reviews.List(ctx, subjectID, p)
}

// recalculate refreshes the subject's rounded average. The review itself is
// already stored, so failures are only logged.
func (s *ReviewService) recalculate(ctx context.Context, subjectID uint) {
	avg, count, err := s.reviews.AverageFor(ctx, subjectID)
	if err != nil {
		logger.Error("Failed to compute rating", "user_id", subjectID, "error", err)
		return
	}

	var rating *int
	if count > 0 {
		r := int(math.Round(avg))
		rating = &r
	}
	if err := s.users.UpdateRating(ctx, subjectID, rating); err != nil {
		logger.Error("Failed to update rating", "user_id", subjectID, "error", err)
	}
}

func validateReview(rating int, comment string) (string, error) {
	if rating < models.MinRating || rating > models.MaxRating {
		return "", errors.Validation(fmt.Sprintf("Classificacao must be between %d and %d", models.MinRating, models.MaxRating))
	}
	clean := security.SanitizeText(strings.TrimSpace(comment))
	if !security.ValidateLength(clean, 1, maxCommentLength) {
		return "", errors.Validation(fmt.Sprintf("Comentario must be between 1 and %d characters", maxCommentLength))
	}
	return clean, nil
}
