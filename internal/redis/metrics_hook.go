package redis

import (
	"context"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/beargallbladder/fairwaylive/internal/metrics"
)

// MetricsHook records duration and outcome for every Redis command.
type MetricsHook struct{}

var _ goredis.Hook = (*MetricsHook)(nil)

func NewMetricsHook() *MetricsHook {
	return &MetricsHook{}
}

func (h *MetricsHook) DialHook(next goredis.DialHook) goredis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *MetricsHook) ProcessHook(next goredis.ProcessHook) goredis.ProcessHook {
	return func(ctx context.Context, cmd goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		metrics.RedisOperationDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())
		if err != nil && err != goredis.Nil {
			metrics.RedisOperationErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h *MetricsHook) ProcessPipelineHook(next goredis.ProcessPipelineHook) goredis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []goredis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		metrics.RedisOperationDuration.WithLabelValues("pipeline").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RedisOperationErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}
