package state

import (
	"context"
	"strings"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// ValidateReview is the client-side gate applied before any network call.
// A rating outside 1-5 never reaches the backend; a trimmed-empty comment is
// treated as absent.
func ValidateReview(input *api.ReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return &api.Error{Kind: api.KindValidation, Message: "Please select a rating"}
	}
	input.Comment = strings.TrimSpace(input.Comment)
	return nil
}

// FetchUserReviews loads all reviews about one user plus the server-computed
// average rating from the response meta.
func (s *Store) FetchUserReviews(ctx context.Context, userID string) error {
	key := "reviews/user/" + userID
	if !s.begin(key, s.reviews.pending) {
		return ErrInFlight
	}
	resp, err := api.Get[[]api.Review](ctx, s.client, api.EndpointReviewsByUser(userID), s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.reviews.rejected(err)
			opErr = err
			return
		}
		s.reviews.Loading = false
		entry := UserReviews{Items: resp.Data}
		if resp.Meta != nil {
			entry.AverageRating = resp.Meta.AverageRating
		}
		s.reviews.Data[userID] = entry
	})
	return opErr
}

// CreateReview validates locally, then submits. Duplicate submissions for the
// same plan/user pair are dropped while one is in flight. The one-review-per-
// triple rule is enforced server-side only; a conflict comes back as an error
// message like any other.
func (s *Store) CreateReview(ctx context.Context, input api.ReviewInput) (api.Review, error) {
	if err := ValidateReview(&input); err != nil {
		return api.Review{}, err
	}
	key := "reviews/create/" + input.TravelPlanID + "/" + input.ReviewedUserID
	if !s.begin(key, s.reviews.pending) {
		return api.Review{}, ErrInFlight
	}
	resp, err := api.Post[api.Review](ctx, s.client, api.EndpointReviews, input, s.Token())
	var review api.Review
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.reviews.rejected(err)
			opErr = err
			return
		}
		s.reviews.Loading = false
		review = resp.Data
		// The profile page refetches; no local merge into byUser here.
	})
	return review, opErr
}

// UpdateReview PATCHes an existing review.
func (s *Store) UpdateReview(ctx context.Context, id string, input api.ReviewInput) (api.Review, error) {
	if err := ValidateReview(&input); err != nil {
		return api.Review{}, err
	}
	key := "reviews/update/" + id
	if !s.begin(key, s.reviews.pending) {
		return api.Review{}, ErrInFlight
	}
	resp, err := api.Patch[api.Review](ctx, s.client, api.EndpointReview(id), input, s.Token())
	var review api.Review
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.reviews.rejected(err)
			opErr = err
			return
		}
		s.reviews.Loading = false
		review = resp.Data
	})
	return review, opErr
}

// DeleteReview removes a review. The cached byUser entry for the reviewed
// user is dropped so the next view refetches.
func (s *Store) DeleteReview(ctx context.Context, id, reviewedUserID string) error {
	key := "reviews/delete/" + id
	if !s.begin(key, s.reviews.pending) {
		return ErrInFlight
	}
	_, err := api.Delete[any](ctx, s.client, api.EndpointReview(id), s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.reviews.rejected(err)
			opErr = err
			return
		}
		s.reviews.Loading = false
		delete(s.reviews.Data, reviewedUserID)
	})
	return opErr
}
