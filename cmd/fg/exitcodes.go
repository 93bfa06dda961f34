package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no workspace, invalid config)
	ExitDataError   = 3 // Data error (bad snapshot, derived_from cycle)
	ExitNoGraph     = 4 // No graph for the selected assembly/annotation
	ExitPortalError = 5 // Portal error (not found, auth, rate limit, network)
)
