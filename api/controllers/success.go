package controllers

import (
	"net/http"

	"github.com/verdemart/verdemart-backend/api/responses"
	"github.com/verdemart/verdemart-backend/api/validators"
	"github.com/verdemart/verdemart-backend/internal/orders"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/logger"
)

// CheckoutSuccess is the return URL Stripe redirects the shopper to after
// payment. It records the order from the checkout session, then bounces the
// browser to the order page. Stripe retries and double-clicks land on the
// already-recorded order instead of creating a duplicate.
func CheckoutSuccess(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID, err := validators.ParseQueryString(r, "session_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithSessionID(r.Context(), sessionID)
		order, err := svc.RecordFromSession(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Info(logg.WithOrderID(ctx, order.ID.String()), "checkout.success.recorded")
		http.Redirect(w, r, "/orders/"+order.ID.String(), http.StatusSeeOther)
	}
}
