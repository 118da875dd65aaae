package transport

import (
	"errors"
	"net/http"

	"catalog-service/internal/domain"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/service"
	"catalog-service/internal/storage"

	"go.uber.org/zap"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, storage.ErrEmptyUpload),
		errors.Is(err, storage.ErrUploadTooLarge),
		errors.Is(err, storage.ErrUnsupportedContentType):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidReference),
		errors.Is(err, repository.ErrReferenceViolation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrDuplicateSKU),
		errors.Is(err, service.ErrWriteRejected):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("operation", op), zap.Error(err))
		middleware.RespondWithError(w, status, "internal server error")
		return
	}

	logger.Debug("Request rejected",
		zap.String("operation", op),
		zap.Int("status", status),
		zap.Error(err),
	)
	middleware.RespondWithError(w, status, err.Error())
}
