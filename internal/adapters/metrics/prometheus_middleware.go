package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/processor-go/internal/application/common"
)

// PrometheusMiddleware records duration and outcome of every mediator request.
// Request names are the bare type name, e.g. "*commands.TickUnitsCommand" becomes "TickUnitsCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		requestName := extractRequestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(requestName, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

func extractRequestName(request common.Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}
