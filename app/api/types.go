package api

import (
	"context"
	"time"

	"github.com/burgolabs/briefing/app/pipeline"
	"github.com/burgolabs/briefing/app/region"
)

type RunnerInterface interface {
	Run(ctx context.Context, cooldownOverride time.Duration) (pipeline.Result, error)
	Last(ctx context.Context) (pipeline.Result, error)
	Region() *region.Region
}

var _ RunnerInterface = (*pipeline.Runner)(nil)

type Handler struct {
	runners map[string]RunnerInterface
	version string
}
