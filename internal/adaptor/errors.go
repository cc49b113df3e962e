package adaptor

import (
	"net/http"

	"cabin-booking/pkg/apperr"
	"cabin-booking/pkg/utils"

	"go.uber.org/zap"
)

const msgInternal = "Ein unerwarteter Fehler ist aufgetreten."

// writeServiceError maps the service error kind to an HTTP status code.
// Unexpected errors never leak detail to the caller; the full chain goes
// to the log only.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperr.KindOf(err)
	message := apperr.MessageOf(err)

	switch kind {
	case apperr.KindValidation:
		log.Warn(operation+" failed - validation", zap.Error(err))
		utils.ResponseBadRequest(w, message, nil)
	case apperr.KindConflict:
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, message)
	case apperr.KindUnauthorized:
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, message)
	case apperr.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, message)
	case apperr.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, message)
	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, msgInternal)
	}
}
