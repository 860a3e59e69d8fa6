package errors

import "errors"

var (
	ErrMissingBotToken  = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrMissingOwnerID   = errors.New("OWNER_ID environment variable is required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidTimer     = errors.New("delete timer must be a positive number of minutes")
)
