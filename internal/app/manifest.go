package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// manifest records how a flyer was produced, for reproducibility.
type manifest struct {
	Source            flyer.Source `json:"source"`
	Model             string       `json:"model,omitempty"`
	LLMBaseURL        string       `json:"llm_base_url,omitempty"`
	RemoteURL         string       `json:"remote_url,omitempty"`
	DescriptionSHA256 string       `json:"description_sha256"`
	DescriptionChars  int          `json:"description_chars"`
	Facts             flyer.Facts  `json:"facts"`
	Version           string       `json:"version"`
	GeneratedAt       time.Time    `json:"generated_at"`
}

func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// manifestFor includes the locally extracted facts even when a model wrote
// the copy, so reviewers can compare the two.
func manifestFor(cfg Config, res flyer.Result, description string) manifest {
	d := strings.TrimSpace(description)
	return manifest{
		Source:            res.Source,
		Model:             strings.TrimSpace(cfg.LLMModel),
		LLMBaseURL:        strings.TrimSpace(cfg.LLMBaseURL),
		RemoteURL:         strings.TrimSpace(cfg.RemoteURL),
		DescriptionSHA256: computeSHA256Hex(d),
		DescriptionChars:  len([]rune(d)),
		Facts:             flyer.Extract(description),
		Version:           BuildVersion,
		GeneratedAt:       time.Now().UTC(),
	}
}

func marshalManifestJSON(m manifest) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the output.
func deriveManifestSidecarPath(outputPath string) string {
	return outputPath + ".manifest.json"
}
