package state

import (
	"context"

	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// CreateIntent asks the backend for a payment intent and stores the returned
// client secret for the hosted payment widget. Status moves to
// intent-created.
func (s *Store) CreateIntent(ctx context.Context, subscriptionType string) (string, error) {
	key := "payment/intent"
	if !s.begin(key, s.payment.pending) {
		return "", ErrInFlight
	}
	body := map[string]string{"subscriptionType": subscriptionType}
	resp, err := api.Post[api.PaymentIntent](ctx, s.client, api.EndpointCreateIntent, body, s.Token())
	var secret string
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.payment.rejected(err)
			opErr = err
			return
		}
		s.payment.Loading = false
		secret = resp.Data.ClientSecret
		s.payment.Data.ClientSecret = secret
		s.payment.Data.Status = PaymentIntentCreated
	})
	return secret, opErr
}

// ConfirmPayment reports the widget's success back to the backend. Status
// moves to confirmed. Settlement itself is the backend's business.
func (s *Store) ConfirmPayment(ctx context.Context, subscriptionType string) error {
	key := "payment/confirm"
	if !s.begin(key, s.payment.pending) {
		return ErrInFlight
	}
	body := map[string]string{"subscriptionType": subscriptionType}
	_, err := api.Post[any](ctx, s.client, api.EndpointConfirmPayment, body, s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.payment.rejected(err)
			opErr = err
			return
		}
		s.payment.Loading = false
		s.payment.Data.Status = PaymentConfirmed
	})
	return opErr
}

// FetchPaymentHistory loads past payments for the current user.
func (s *Store) FetchPaymentHistory(ctx context.Context) error {
	key := "payment/history"
	if !s.begin(key, s.payment.pending) {
		return ErrInFlight
	}
	resp, err := api.Get[[]api.Payment](ctx, s.client, api.EndpointPaymentHistory, s.Token())
	var opErr error
	s.finish(key, func() {
		if err != nil {
			s.payment.rejected(err)
			opErr = err
			return
		}
		s.payment.Loading = false
		s.payment.Data.History = resp.Data
	})
	return opErr
}

// ResetPayment returns the payment slice to idle, clearing the client secret.
func (s *Store) ResetPayment() {
	s.mu.Lock()
	s.payment = Resource[PaymentData]{}
	s.payment.Data.Status = PaymentIdle
	s.mu.Unlock()
	s.notify()
}
