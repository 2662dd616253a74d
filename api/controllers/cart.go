package controllers

import (
	"net/http"

	"github.com/fixpointhq/fixpoint-backend/api/responses"
	"github.com/fixpointhq/fixpoint-backend/api/validators"
	"github.com/fixpointhq/fixpoint-backend/internal/cart"
	"github.com/fixpointhq/fixpoint-backend/internal/checkout"
	pkgerrors "github.com/fixpointhq/fixpoint-backend/pkg/errors"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const cartSessionHeader = "X-Cart-Session"

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Price     string `json:"price" validate:"required"`
	ImageURL  string `json:"image_url"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone"`
}

type cartView struct {
	Items    []cart.Item `json:"items"`
	Total    string      `json:"total"`
	Quantity int         `json:"quantity"`
}

func viewOf(engine *cart.Engine) cartView {
	return cartView{
		Items:    engine.Items(),
		Total:    engine.Total().String(),
		Quantity: engine.Quantity(),
	}
}

func sessionEngine(r *http.Request, sessions *cart.Sessions) (*cart.Engine, string, error) {
	sessionID := r.Header.Get(cartSessionHeader)
	if sessionID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "cart session header required")
	}
	engine, err := sessions.Get(r.Context(), sessionID)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart session")
	}
	return engine, sessionID, nil
}

func GetCart(sessions *cart.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func AddCartItem(sessions *cart.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		engine.AddItem(cart.AddItemInput{
			ProductID: req.ProductID,
			Name:      req.Name,
			Price:     price,
			ImageURL:  req.ImageURL,
			Quantity:  req.Quantity,
		})
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func UpdateCartItem(sessions *cart.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		var req updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine.UpdateQuantity(productID, req.Quantity)
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func RemoveCartItem(sessions *cart.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}

		engine.RemoveItem(productID)
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func ClearCart(sessions *cart.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, _, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		engine.Clear()
		responses.WriteSuccess(w, viewOf(engine))
	}
}

func Checkout(sessions *cart.Sessions, svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, sessionID, err := sessionEngine(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, err := svc.Execute(r.Context(), engine, checkout.Input{
			SessionID:     sessionID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"orders": records})
	}
}
