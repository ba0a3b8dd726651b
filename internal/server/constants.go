package server

import "time"

const (
	storeTimeout     = 5 * time.Second
	shutdownTimeout  = 5 * time.Second
	httpTimeout      = 10 * time.Second
	loginRateWindow  = 1 * time.Minute
	loginRateMaxHits = 10
	maxBodyBytes     = 1 << 20
	qrSize           = 320
)

const (
	msgInvalidJSON   = "Invalid JSON"
	msgServerError   = "Server error"
	msgTooMany       = "Too many requests, try again later"
	msgBadOrigin     = "Blocked: bad origin"
	msgAuthRequired  = "Authorization required"
	msgBadSession    = "Session is invalid"
	msgUserNotFound  = "User not found"
	msgQRUnavailable = "Could not generate share code"
)
