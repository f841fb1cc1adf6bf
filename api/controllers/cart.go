package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdemart/verdemart-backend/api/middleware"
	"github.com/verdemart/verdemart-backend/api/responses"
	"github.com/verdemart/verdemart-backend/api/validators"
	cartpkg "github.com/verdemart/verdemart-backend/internal/cart"
	"github.com/verdemart/verdemart-backend/internal/catalog"
	pkgerrors "github.com/verdemart/verdemart-backend/pkg/errors"
	"github.com/verdemart/verdemart-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"omitempty,gte=1"`
}

type replaceCartRequest struct {
	Items []addCartItemRequest `json:"items" validate:"dive"`
}

type cartResponse struct {
	Owner string         `json:"owner"`
	Items []cartpkg.Line `json:"items"`
}

func newCartResponse(store *cartpkg.Store) cartResponse {
	lines := store.Snapshot()
	if lines == nil {
		lines = []cartpkg.Line{}
	}
	return cartResponse{Owner: store.Owner(), Items: lines}
}

// ownerStore resolves the authenticated shopper's cart. The auth middleware
// guarantees a user id is present on these routes.
func ownerStore(r *http.Request, carts *cartpkg.Manager) (*cartpkg.Store, error) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return carts.ForOwner(r.Context(), owner), nil
}

func cartProductID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productId")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

// GetCart returns the shopper's current cart.
func GetCart(carts *cartpkg.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// AddCartItem puts a catalog product into the cart, bumping the quantity when
// the product is already present. Line prices always come from the catalog.
func AddCartItem(carts *cartpkg.Manager, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Add(r.Context(), *product, payload.Qty)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// IncrementCartItem bumps an existing line's quantity by one.
func IncrementCartItem(carts *cartpkg.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Increment(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// DecrementCartItem lowers an existing line's quantity, flooring at one.
func DecrementCartItem(carts *cartpkg.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Decrement(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// RemoveCartItem drops a line from the cart regardless of its quantity.
func RemoveCartItem(carts *cartpkg.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := cartProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Remove(r.Context(), productID)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// ReplaceCart swaps the whole cart for the supplied item list. Every item is
// re-resolved against the catalog so stale client prices never stick.
func ReplaceCart(carts *cartpkg.Manager, products catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload replaceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cartpkg.Line, 0, len(payload.Items))
		for _, item := range payload.Items {
			product, err := products.GetProduct(r.Context(), item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			qty := item.Qty
			if qty < 1 {
				qty = 1
			}
			lines = append(lines, cartpkg.Line{
				ProductID:      product.ID,
				Name:           product.Name,
				UnitPriceCents: product.PriceCents,
				ImageSrc:       product.ImageSrc,
				Qty:            qty,
			})
		}

		store.SetAll(r.Context(), lines)
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// ClearCart empties the shopper's cart.
func ClearCart(carts *cartpkg.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}

		store, err := ownerStore(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear(r.Context())
		responses.WriteSuccess(w, newCartResponse(store))
	}
}
