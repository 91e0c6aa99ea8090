package api

import (
	"encoding/json"
	"time"
)

// Ref handles fields the backend returns either as a bare string id or as an
// expanded document, depending on whether the endpoint populates the
// reference. The shape is resolved once here instead of at every call site.
type Ref[T any] struct {
	ID    string
	Value *T
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Value = nil
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	r.Value = &value
	if ider, ok := any(&value).(interface{ RefID() string }); ok {
		r.ID = ider.RefID()
	}
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.ID)
}

// Expanded reports whether the reference carries the full document.
func (r Ref[T]) Expanded() bool { return r.Value != nil }

// User is the backend's user document. The client only ever holds a cached
// snapshot; the backend stays the source of truth.
type User struct {
	ID                  string    `json:"_id"`
	Email               string    `json:"email"`
	FullName            string    `json:"fullName"`
	ProfileImage        string    `json:"profileImage,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	TravelInterests     []string  `json:"travelInterests"`
	VisitedCountries    []string  `json:"visitedCountries"`
	CurrentLocation     string    `json:"currentLocation,omitempty"`
	Role                string    `json:"role"`
	IsPremium           bool      `json:"isPremium"`
	IsVerified          bool      `json:"isVerified"`
	SubscriptionEndDate string    `json:"subscriptionEndDate,omitempty"`
	CompletedTripsCount int       `json:"completedTripsCount"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (u User) RefID() string { return u.ID }

func (u User) IsAdmin() bool { return u.Role == "admin" }

type Destination struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

type BudgetRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Travel plan lifecycle states as reported by the backend.
const (
	PlanStatusPlanning  = "planning"
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
)

type TravelPlan struct {
	ID               string      `json:"_id"`
	UserID           Ref[User]   `json:"userId"`
	Destination      Destination `json:"destination"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	BudgetRange      BudgetRange `json:"budgetRange"`
	TravelType       string      `json:"travelType"`
	Description      string      `json:"description,omitempty"`
	Itinerary        string      `json:"itinerary,omitempty"`
	MaxTravelers     int         `json:"maxTravelers,omitempty"`
	CurrentTravelers []string    `json:"currentTravelers"`
	JoinedUser       []string    `json:"joinedUser"`
	Interests        []string    `json:"interests"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type Review struct {
	ID             string    `json:"_id"`
	TravelPlanID   string    `json:"travelPlanId"`
	ReviewerID     Ref[User] `json:"reviewerId"`
	ReviewedUserID Ref[User] `json:"reviewedUserId"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Payment struct {
	ID                    string    `json:"_id"`
	UserID                string    `json:"userId"`
	Amount                float64   `json:"amount"`
	Currency              string    `json:"currency"`
	SubscriptionType      string    `json:"subscriptionType"`
	Status                string    `json:"status"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId,omitempty"`
	PaymentMethod         string    `json:"paymentMethod,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// MatchResult is one entry of the server-computed suggested-matches list. The
// order the backend returns is authoritative and must not be re-sorted.
type MatchResult struct {
	TravelPlan      TravelPlan `json:"travelPlan"`
	User            User       `json:"user"`
	MatchScore      int        `json:"matchScore"`
	CommonInterests []string   `json:"commonInterests"`
}

// ReviewablePlan is a completed plan with outstanding reviews. ReviewableUsers
// is not exhaustive of all participants; already-reviewed users are excluded
// server-side.
type ReviewablePlan struct {
	TravelPlan        TravelPlan `json:"travelPlan"`
	ReviewableUsers   []User     `json:"reviewableUsers"`
	TotalParticipants int        `json:"totalParticipants"`
	ReviewedCount     int        `json:"reviewedCount"`
}

// AuthPayload is the data block of successful login/register responses.
type AuthPayload struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

type RegisterRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
	FullName string `json:"fullName" form:"fullName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type PlanInput struct {
	Destination  Destination `json:"destination"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	BudgetRange  BudgetRange `json:"budgetRange"`
	TravelType   string      `json:"travelType"`
	Description  string      `json:"description,omitempty"`
	Itinerary    string      `json:"itinerary,omitempty"`
	MaxTravelers int         `json:"maxTravelers,omitempty"`
	Interests    []string    `json:"interests,omitempty"`
}

// ReviewInput is the review create/update payload. Comment is omitted when
// empty; the backend treats an empty comment as absent. The identifiers are
// omitted too so update payloads carry only rating and comment.
type ReviewInput struct {
	TravelPlanID   string `json:"travelPlanId,omitempty"`
	ReviewedUserID string `json:"reviewedUserId,omitempty"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
}

type ProfileUpdate struct {
	FullName         string   `json:"fullName,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	ProfileImage     string   `json:"profileImage,omitempty"`
	CurrentLocation  string   `json:"currentLocation,omitempty"`
	TravelInterests  []string `json:"travelInterests,omitempty"`
	VisitedCountries []string `json:"visitedCountries,omitempty"`
}

type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}
