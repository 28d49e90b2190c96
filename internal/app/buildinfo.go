package app

// Build information stamped into flyer manifests and the backend User-Agent.
// Release builds set it via -ldflags "-X .../internal/app.BuildVersion=...".
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// UserAgent identifies goflyer to the remote generation service and the LLM
// endpoint.
func UserAgent() string {
	return "goflyer/" + BuildVersion + " (+https://github.com/hyperifyio/goflyer)"
}
