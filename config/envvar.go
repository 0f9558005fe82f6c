package config

// Environment variables read by Load. Secrets are only accepted from here.
const (
	EnvHTTPAddr          = "NARRATOR_HTTP_ADDR"
	EnvGRPCAddr          = "NARRATOR_GRPC_ADDR"
	EnvLogLevel          = "NARRATOR_LOG_LEVEL"
	EnvLogFile           = "NARRATOR_LOG_FILE"
	EnvPollingInterval   = "NARRATOR_POLLING_INTERVAL"
	EnvSupabaseURL       = "SUPABASE_URL"
	EnvSupabaseKey       = "SUPABASE_SERVICE_KEY"
	EnvElevenLabsAPIKey  = "ELEVENLABS_API_KEY"
	EnvElevenLabsBaseURL = "ELEVENLABS_BASE_URL"
	EnvReplicateToken    = "REPLICATE_API_TOKEN"
	EnvReplicateBaseURL  = "REPLICATE_BASE_URL"
	EnvReplicateVersion  = "REPLICATE_MODEL_VERSION"
)
