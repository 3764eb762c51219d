package observability

import (
	"context"
	"fmt"
	"net/http"
	"reflect"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"github.com/aws/aws-xray-sdk-go/xray"

	commandbus "interviewbank/application/commands/bus"
	querybus "interviewbank/application/queries/bus"
)

// Tracer provides distributed tracing capabilities
type Tracer struct {
	serviceName string
}

// NewTracer creates a new tracer instance
func NewTracer(serviceName string) *Tracer {
	return &Tracer{
		serviceName: serviceName,
	}
}

// HTTPMiddleware opens an X-Ray segment for every request
func (t *Tracer) HTTPMiddleware(next http.Handler) http.Handler {
	return xray.Handler(xray.NewFixedSegmentNamer(t.serviceName), next)
}

// InstrumentAWS adds X-Ray subsegments to every AWS SDK call made with cfg
func (t *Tracer) InstrumentAWS(cfg *aws.Config) {
	awsv2.AWSV2Instrumentor(&cfg.APIOptions)
}

// StartSubsegment starts a new subsegment within an existing segment
func (t *Tracer) StartSubsegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSubsegment(ctx, name)
}

// TraceFunction wraps a function with tracing
func (t *Tracer) TraceFunction(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, seg := t.StartSubsegment(ctx, name)
	if seg == nil {
		return fn(ctx)
	}
	defer seg.Close(nil)

	err := fn(ctx)
	if err != nil {
		_ = seg.AddError(err)
	}

	return err
}

// CommandMiddleware traces each command in its own subsegment
func (t *Tracer) CommandMiddleware() commandbus.Middleware {
	return func(next commandbus.CommandHandler) commandbus.CommandHandler {
		return commandbus.CommandHandlerFunc(func(ctx context.Context, cmd commandbus.Command) (interface{}, error) {
			var result interface{}
			err := t.TraceFunction(ctx, fmt.Sprintf("command.%s", reflect.TypeOf(cmd).Name()), func(ctx context.Context) error {
				var err error
				result, err = next.Handle(ctx, cmd)
				return err
			})
			return result, err
		})
	}
}

// QueryMiddleware traces each query in its own subsegment
func (t *Tracer) QueryMiddleware() querybus.Middleware {
	return func(next querybus.QueryHandler) querybus.QueryHandler {
		return querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
			var result interface{}
			err := t.TraceFunction(ctx, fmt.Sprintf("query.%s", reflect.TypeOf(query).Name()), func(ctx context.Context) error {
				var err error
				result, err = next.Handle(ctx, query)
				return err
			})
			return result, err
		})
	}
}
