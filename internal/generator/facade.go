package generator

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goflyer/internal/flyer"
)

// Facade tries each primary in order and falls back to Fallback (Local when
// nil) once they are exhausted.
type Facade struct {
	Primaries []Generator
	Fallback  Generator
}

// Generate never fails: the fallback result is returned whenever no primary
// succeeds. Blank descriptions skip the primaries.
func (f *Facade) Generate(ctx context.Context, description string) flyer.Result {
	if strings.TrimSpace(description) != "" {
		for _, p := range f.Primaries {
			if p == nil {
				continue
			}
			res, err := p.Generate(ctx, description)
			if err == nil && res.Success {
				log.Debug().Str("source", string(res.Source)).Str("generator", p.Name()).Msg("flyer generated")
				return res
			}
			if err == nil {
				log.Warn().Str("generator", p.Name()).Msg("generator reported failure, trying next")
				continue
			}
			log.Warn().Err(err).Str("generator", p.Name()).Msg("generator failed, trying next")
		}
	}
	fb := f.Fallback
	if fb == nil {
		fb = Local{}
	}
	res, err := fb.Generate(ctx, description)
	if err != nil {
		log.Warn().Err(err).Str("generator", fb.Name()).Msg("fallback failed, using local")
		return flyer.Generate(description)
	}
	return res
}
