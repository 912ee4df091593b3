package autowire

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/autowire/alias"
	"github.com/kbukum/autowire/errors"
	"github.com/kbukum/autowire/logger"
	"github.com/kbukum/autowire/observability"
)

// Lookup is the service parameter values are resolved from. Has must not
// construct anything.
type Lookup interface {
	Has(key string) bool
	Get(key string) (interface{}, error)
}

// AliasSource provides the alias map of a class. *alias.Cache implements it.
type AliasSource interface {
	AliasMap(ctx context.Context, identity string) (alias.Map, error)
}

// Instantiator builds a class from positional arguments.
// *introspect.Catalog implements it.
type Instantiator interface {
	Instantiate(identity string, args []interface{}) (interface{}, error)
}

// Resolver constructs classes from a lookup service.
type Resolver struct {
	aliases      AliasSource
	instantiator Instantiator
	log          *logger.Logger
	metrics      *observability.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a resolver over an alias source and an instantiator.
func NewResolver(aliases AliasSource, instantiator Instantiator, opts ...Option) *Resolver {
	r := &Resolver{
		aliases:      aliases,
		instantiator: instantiator,
		log:          logger.Get(logger.ComponentResolver),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Construct builds a new instance of identity. For every constructor
// parameter, in declaration order, the first alias lookup.Has reports is
// fetched with lookup.Get. Errors:
//
//   - CONSTRUCTION_FAILED wrapping REFLECTION_FAILED when the class cannot
//     be introspected
//   - NO_PARAMETER_MATCH when no alias of a parameter is available
//   - CONSTRUCTION_FAILED when lookup.Get fails for an available alias
//   - errors from the instantiator, unchanged
func (r *Resolver) Construct(ctx context.Context, lookup Lookup, identity string) (interface{}, error) {
	start := time.Now()
	ctx, span := observability.Tracer().Start(ctx, observability.SpanConstruct,
		trace.WithAttributes(attribute.String(observability.AttrClass, identity)))
	defer span.End()

	instance, err := r.construct(ctx, span, lookup, identity)

	status := "ok"
	if err != nil {
		status = "error"
		observability.SetSpanError(span, err)
		r.log.Warn("Auto-wiring failed", logger.Fields(
			logger.FieldClass, identity,
			logger.FieldError, err.Error(),
		))
	}
	r.metrics.RecordConstruct(ctx, identity, status, time.Since(start))
	return instance, err
}

func (r *Resolver) construct(ctx context.Context, span trace.Span, lookup Lookup, identity string) (interface{}, error) {
	m, err := r.aliases.AliasMap(ctx, identity)
	if err != nil {
		return nil, errors.ConstructionFailed(identity, err)
	}

	args := make([]interface{}, len(m))
	for i, entry := range m {
		value, key, err := resolveParameter(lookup, identity, entry)
		if err != nil {
			return nil, err
		}
		span.AddEvent("parameter resolved", trace.WithAttributes(
			attribute.String(observability.AttrParameter, entry.Parameter),
			attribute.String(observability.AttrAlias, key),
		))
		r.log.Debug("Parameter resolved", logger.Fields(
			logger.FieldClass, identity,
			logger.FieldParameter, entry.Parameter,
			logger.FieldAlias, key,
		))
		args[i] = value
	}

	return r.instantiator.Instantiate(identity, args)
}

// resolveParameter returns the value under the first available alias of
// entry, and that alias.
func resolveParameter(lookup Lookup, identity string, entry alias.Entry) (interface{}, string, error) {
	for _, key := range entry.Aliases {
		if !lookup.Has(key) {
			continue
		}
		value, err := lookup.Get(key)
		if err != nil {
			return nil, key, errors.ConstructionFailed(identity, err).
				WithDetail("parameter", entry.Parameter).
				WithDetail("alias", key)
		}
		return value, key, nil
	}
	return nil, "", errors.NoParameterMatch(identity, entry.Parameter)
}

// ConstructAs constructs identity and asserts the instance to T.
func ConstructAs[T any](ctx context.Context, r *Resolver, lookup Lookup, identity string) (T, error) {
	var zero T
	instance, err := r.Construct(ctx, lookup, identity)
	if err != nil {
		return zero, err
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.ConstructionFailed(identity, nil).
			WithDetail("expected", reflect.TypeOf((*T)(nil)).Elem().String()).
			WithDetail("actual", fmt.Sprintf("%T", instance))
	}
	return result, nil
}
