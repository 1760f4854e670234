package env

const AppName = "seginfo"

// Set at build time with -ldflags "-X github.com/ostafen/seginfo/internal/env.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
