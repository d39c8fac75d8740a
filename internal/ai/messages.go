package ai

import (
	"context"
	"errors"
)

const (
	// TimeoutMessage is shown when the analysis deadline passes.
	TimeoutMessage = "Превышено время ожидания ответа от нейросети."
	// GenericErrorMessage is shown when an error carries no text.
	GenericErrorMessage = "Произошла ошибка при анализе данных."
)

// ErrorMessage turns an analysis error into the text shown to the user.
// Service errors are shown as-is.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return InvalidPayloadMessage
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutMessage
	case err == nil || err.Error() == "":
		return GenericErrorMessage
	default:
		return err.Error()
	}
}
