package classifier

import "errors"

// Sentinel errors for classifier operations. The review workflow treats them
// alike; they are distinguished for logging and tests.
var (
	ErrFetchFailed     = errors.New("image fetch failed")
	ErrImageTooLarge   = errors.New("image exceeds maximum size")
	ErrClassifyFailed  = errors.New("classification failed")
	ErrInvalidJudgment = errors.New("invalid classifier judgment")
	ErrUnknownProvider = errors.New("unknown classifier provider")
	ErrMissingAPIKey   = errors.New("classifier api key not set")
)
