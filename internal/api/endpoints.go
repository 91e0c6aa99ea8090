package api

// Backend route table. Paths are relative to the configured API base URL.
const (
	EndpointRegister     = "/auth/register"
	EndpointLogin        = "/auth/login"
	EndpointLogout       = "/auth/logout"
	EndpointRefreshToken = "/auth/refresh-token"

	EndpointMe       = "/users/me"
	EndpointUsers    = "/users"
	EndpointPlans    = "/travel-plans"
	EndpointSearch   = "/travel-plans/search"
	EndpointReviews  = "/reviews"
	EndpointPayments = "/payments"

	EndpointReviewable     = "/reviews/reviewable"
	EndpointCreateIntent   = "/payments/create-intent"
	EndpointConfirmPayment = "/payments/confirm"
	EndpointPaymentHistory = "/payments/history"
	EndpointSuggestedMatch = "/matching/suggested"
)

func EndpointUser(id string) string { return EndpointUsers + "/" + id }

func EndpointPlan(id string) string { return EndpointPlans + "/" + id }

func EndpointPlanJoin(id string) string { return EndpointPlans + "/" + id + "/join" }

func EndpointReview(id string) string { return EndpointReviews + "/" + id }

func EndpointReviewsByUser(userID string) string { return EndpointReviews + "/user/" + userID }

func EndpointReviewsByPlan(planID string) string { return EndpointReviews + "/travel-plan/" + planID }
