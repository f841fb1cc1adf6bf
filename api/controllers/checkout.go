package controllers

import (
	"net/http"

	"github.com/verdemart/verdemart-backend/api/responses"
	"github.com/verdemart/verdemart-backend/api/validators"
	cartpkg "github.com/verdemart/verdemart-backend/internal/cart"
	"github.com/verdemart/verdemart-backend/internal/checkout"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/logger"
)

type checkoutCartRequest struct {
	Items []cartpkg.Line `json:"items"`
}

// CreateCheckoutSession opens a hosted Stripe session for the posted cart.
// The service re-prices every line from the catalog, so the payload only
// needs product ids and quantities.
func CreateCheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutCartRequest
		if err := validators.DecodeJSONBodyLenient(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.CreateSession(r.Context(), payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, session)
	}
}
