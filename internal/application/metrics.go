package application

import "expvar"

// Published at /debug/vars when DEBUG_METRICS_ENABLED.
var accountStats = expvar.NewMap("accounts")

const (
	statRegistered    = "registered"
	statVerified      = "verified"
	statLogins        = "logins"
	statResetRequests = "reset_requests"
	statResets        = "resets"
	statMailFailures  = "mail_failures"
)
