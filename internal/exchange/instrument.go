package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"routineshell/internal/logger"
	"routineshell/internal/metrics"
	"routineshell/pkg/routinetypes"
)

type instrumented struct {
	next     Exchanger
	provider string
	metrics  *metrics.Metrics
	log      *log.Logger
	now      func() time.Time
}

// Instrument wraps next so each Send is timed, counted and logged.
// A nil m disables metrics but keeps logging.
func Instrument(next Exchanger, provider string, m *metrics.Metrics) Exchanger {
	return &instrumented{
		next:     next,
		provider: provider,
		metrics:  m,
		log:      logger.NewStyledLogger("Exchange"),
		now:      time.Now,
	}
}

func (i *instrumented) Send(ctx context.Context, messages []routinetypes.Message, products []routinetypes.ResolvedProduct) (string, error) {
	start := i.now()
	reply, err := i.next.Send(ctx, messages, products)
	elapsed := i.now().Sub(start)

	i.metrics.ObserveExchange(i.provider, elapsed, err)

	if err != nil {
		var remote *routinetypes.RemoteServiceError
		status := 0
		if errors.As(err, &remote) {
			status = remote.StatusCode
		}
		i.log.Warn("Exchange failed", "provider", i.provider, "status", status, "error", err, "duration_ms", elapsed.Milliseconds())
		return "", err
	}

	i.log.Info("Exchange completed", "provider", i.provider, "reply_length", len(reply), "duration_ms", elapsed.Milliseconds())
	return reply, nil
}
