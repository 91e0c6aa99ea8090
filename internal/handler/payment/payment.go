package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
	"github.com/aliakborswe/travel-buddy-client/internal/config"
	"github.com/aliakborswe/travel-buddy-client/internal/session"
	"github.com/aliakborswe/travel-buddy-client/internal/state"
)

// SubscriptionPlan is display data for the premium page; prices shown here
// are informational, the backend computes the charged amount.
type SubscriptionPlan struct {
	Type     string
	Name     string
	Price    float64
	Duration string
	Features []string
}

var SubscriptionPlans = []SubscriptionPlan{
	{
		Type:     "monthly",
		Name:     "Monthly Premium",
		Price:    9.99,
		Duration: "month",
		Features: []string{
			"Unlimited travel plans",
			"Verified badge",
			"Priority matching",
			"Advanced search filters",
			"Message other travelers",
		},
	},
	{
		Type:     "yearly",
		Name:     "Yearly Premium",
		Price:    99.99,
		Duration: "year",
		Features: []string{
			"All monthly features",
			"2 months free",
			"Early access to new features",
			"Premium support",
			"Custom profile badge",
		},
	},
}

func planByType(t string) *SubscriptionPlan {
	for i := range SubscriptionPlans {
		if SubscriptionPlans[i].Type == t {
			return &SubscriptionPlans[i]
		}
	}
	return nil
}

type PaymentHandler interface {
	Premium(c *gin.Context)
	Checkout(c *gin.Context)
	Confirm(c *gin.Context)
	Success(c *gin.Context)
	Cancel(c *gin.Context)
	History(c *gin.Context)
}

type paymentHandler struct {
	cfg      *config.WebConfig
	sessions *session.Manager
}

func NewPaymentHandler(cfg *config.WebConfig, sessions *session.Manager) PaymentHandler {
	return &paymentHandler{cfg: cfg, sessions: sessions}
}

func errorRedirect(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/error?msg="+url.QueryEscape(msg))
}

func (h *paymentHandler) Premium(c *gin.Context) {
	store := h.sessions.Store(c)
	c.HTML(http.StatusOK, "premium.html", gin.H{
		"isLoggedIn":      store.IsAuthenticated(),
		"user":            store.CurrentUser(),
		"plans":           SubscriptionPlans,
		"checkoutEnabled": h.cfg.StripePublishableKey != "",
	})
}

// Checkout creates a payment intent and renders the hosted payment widget
// with the returned client secret. Without a publishable key the flow is
// disabled; everything else on the site keeps working.
func (h *paymentHandler) Checkout(c *gin.Context) {
	store := h.sessions.Store(c)
	if h.cfg.StripePublishableKey == "" {
		errorRedirect(c, "Checkout is not configured")
		return
	}
	plan := planByType(c.Query("plan"))
	if plan == nil {
		errorRedirect(c, "Unknown subscription plan")
		return
	}
	secret, err := store.CreateIntent(c.Request.Context(), plan.Type)
	if err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
		errorRedirect(c, api.Message(err))
		return
	}
	c.HTML(http.StatusOK, "checkout.html", gin.H{
		"isLoggedIn":     true,
		"user":           store.CurrentUser(),
		"plan":           plan,
		"clientSecret":   secret,
		"publishableKey": h.cfg.StripePublishableKey,
	})
}

// Confirm is called after the widget reports success. The backend verifies
// with the payment provider; the client only relays the signal.
func (h *paymentHandler) Confirm(c *gin.Context) {
	store := h.sessions.Store(c)
	plan := planByType(c.PostForm("plan"))
	if plan == nil {
		errorRedirect(c, "Unknown subscription plan")
		return
	}
	if err := store.ConfirmPayment(c.Request.Context(), plan.Type); err != nil {
		c.Redirect(http.StatusFound, "/payment/cancel")
		return
	}
	c.Redirect(http.StatusFound, "/payment/success")
}

func (h *paymentHandler) Success(c *gin.Context) {
	store := h.sessions.Store(c)
	payment, _, _ := store.Payment()
	defer store.ResetPayment()
	c.HTML(http.StatusOK, "payment-success.html", gin.H{
		"isLoggedIn": store.IsAuthenticated(),
		"user":       store.CurrentUser(),
		"confirmed":  payment.Status == state.PaymentConfirmed,
	})
}

func (h *paymentHandler) Cancel(c *gin.Context) {
	store := h.sessions.Store(c)
	store.ResetPayment()
	c.HTML(http.StatusOK, "payment-cancel.html", gin.H{
		"isLoggedIn": store.IsAuthenticated(),
		"user":       store.CurrentUser(),
	})
}

func (h *paymentHandler) History(c *gin.Context) {
	store := h.sessions.Store(c)
	if err := store.FetchPaymentHistory(c.Request.Context()); err != nil {
		if api.IsAuthError(err) {
			c.Redirect(http.StatusFound, "/login")
			return
		}
	}
	payment, loading, errMsg := store.Payment()
	c.HTML(http.StatusOK, "payment-history.html", gin.H{
		"isLoggedIn": true,
		"user":       store.CurrentUser(),
		"payments":   payment.History,
		"loading":    loading,
		"error":      errMsg,
	})
}
