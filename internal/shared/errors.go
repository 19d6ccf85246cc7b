package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed     = fmt.Errorf("authentication failed")
	ErrTokenExpired   = fmt.Errorf("access token expired")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")

	// API and upstream errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrNoTrackLink  = fmt.Errorf("no track link available")
	ErrStaleDaylist = fmt.Errorf("daylist cache missing or stale")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
