// Package flyer turns a free-text property description into flyer content.
// It is the deterministic path used whenever a remote generator is
// unavailable, so nothing in here can fail.
package flyer

// Source names which path produced a Result.
type Source string

const (
	SourceLocal  Source = "local"
	SourceLLM    Source = "llm"
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// Result is the tagged value handed to renderers and returned over HTTP.
type Result struct {
	Success bool    `json:"success"`
	Data    Content `json:"data"`
	Source  Source  `json:"source,omitempty"`
}

// Generate runs Extract and Compose and wraps the content in a successful
// Result.
func Generate(description string) Result {
	return Result{
		Success: true,
		Data:    Compose(Extract(description)),
		Source:  SourceLocal,
	}
}

// Complete reports whether c carries enough content to render: a title and at
// least one feature.
func (c Content) Complete() bool {
	return c.Title != "" && len(c.Features) > 0
}
