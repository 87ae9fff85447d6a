package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondServiceError maps business errors to HTTP responses in one place,
// so every handler surfaces the same taxonomy:
// not found -> 404, forbidden -> 403, invalid request/state and
// insufficient stock -> 400, conflicts -> 409, anything else -> 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var stockErr *service.InsufficientStockError
	var stateErr *service.InvalidStateError

	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrOrderForbidden):
		middleware.RespondWithError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())

	case errors.As(err, &stockErr):
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, stockErr.Error(), map[string]interface{}{
			"product":   stockErr.ProductName,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})

	case errors.As(err, &stateErr):
		middleware.RespondWithError(w, http.StatusBadRequest, stateErr.Error())

	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, err.Error())

	default:
		logger.Error("Unexpected error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// currentUserID extracts the authenticated user's ID placed in the request
// context by the auth middleware
func currentUserID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}
