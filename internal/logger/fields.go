package logger

// Standard field keys for structured logging.
// Use these keys consistently across all log statements so that log
// aggregation and querying sees one vocabulary.
const (
	// Request tracking
	KeyRequestID = "request_id" // per-request id from the router middleware
	KeyEndpoint  = "endpoint"   // matched route pattern
	KeyMethod    = "method"     // HTTP method
	KeyPath      = "path"       // raw request path
	KeyStatus    = "status"     // HTTP status code

	// Client identification
	KeyClientIP = "client_ip" // client IP address
	KeyUserID   = "user_id"   // authenticated user id (0 when anonymous)
	KeyUsername = "username"  // username when known

	// Gameplay domain
	KeyMode      = "mode"       // game mode (0=std 1=taiko 2=ctb 3=mania)
	KeyPlaystyle = "playstyle"  // 0=vanilla 1=relax 2=autopilot
	KeyBeatmapID = "beatmap_id" // beatmap id
	KeyScoreID   = "score_id"   // score id
	KeyClanID    = "clan_id"    // clan id

	// Operation metadata
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyComponent  = "component"   // subsystem emitting the log line
)
