// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package skill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/plant-care/datastore"
	"github.com/danielhkuo/plant-care/models"
	"github.com/danielhkuo/plant-care/store"
)

var tracer = otel.Tracer("github.com/danielhkuo/plant-care/skill")

var ErrNoHandler = errors.New("no handler matched request")

// Attributes is the per-request view of the user's persisted record
type Attributes interface {
	Get(ctx context.Context) (models.Attributes, error)
	Set(attrs models.Attributes)
	Save(ctx context.Context) error
}

// Syncer mirrors the last watered date to the user's devices
type Syncer interface {
	SyncLastWatered(ctx context.Context, userID, date string) datastore.Result
}

// Input is everything a handler may touch while handling one request
type Input struct {
	Envelope   *models.RequestEnvelope
	Attributes Attributes
	Sync       Syncer
	Response   *ResponseBuilder
	Now        func() time.Time
}

// UserID is the id of the user who sent the request
func (in *Input) UserID() string {
	return UserID(in.Envelope)
}

type Handler func(ctx context.Context, in *Input) (*models.ResponseEnvelope, error)

// ErrorHandler turns any failure into a response. It must not fail.
type ErrorHandler func(ctx context.Context, in *Input, err error) *models.ResponseEnvelope

type Predicate func(env *models.RequestEnvelope) bool

// Interceptor runs before matching, for every request
type Interceptor func(ctx context.Context, env *models.RequestEnvelope)

// Descriptor pairs a predicate with the handler it guards
type Descriptor struct {
	Name      string
	CanHandle Predicate
	Handle    Handler
}

// Deps are the collaborators shared by every request
type Deps struct {
	Attributes store.Backend
	Sync       Syncer
	Now        func() time.Time
}

type Option func(*Dispatcher)

// WithInterceptors adds request interceptors after the built-in request log
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(d *Dispatcher) {
		d.interceptors = append(d.interceptors, interceptors...)
	}
}

// WithUserAgent sets the userAgent field of every response
func WithUserAgent(userAgent string) Option {
	return func(d *Dispatcher) {
		d.userAgent = userAgent
	}
}

// Dispatcher routes a request to the first descriptor whose predicate
// matches. Order is fixed at construction.
type Dispatcher struct {
	descriptors  []Descriptor
	onError      ErrorHandler
	deps         Deps
	interceptors []Interceptor
	userAgent    string
}

func NewDispatcher(descriptors []Descriptor, onError ErrorHandler, deps Deps, opts ...Option) *Dispatcher {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	d := &Dispatcher{
		descriptors:  slices.Clone(descriptors),
		onError:      onError,
		deps:         deps,
		interceptors: []Interceptor{LogRequest},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Names returns the descriptor names in evaluation order
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.descriptors))
	for i, desc := range d.descriptors {
		names[i] = desc.Name
	}
	return names
}

// Dispatch always returns a response. Unmatched requests, handler errors and
// panics in handlers or interceptors all go to the error handler.
func (d *Dispatcher) Dispatch(ctx context.Context, env *models.RequestEnvelope) (resp *models.ResponseEnvelope) {
	ctx, span := tracer.Start(ctx, "skill.Dispatch", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(attribute.String("skill.request_type", RequestType(env)))

	in := d.newInput(env)

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("dispatch panic: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			resp = d.fail(ctx, in, err)
		}
		if resp == nil {
			resp = NewResponseBuilder().Build()
		}
		resp.UserAgent = d.userAgent
	}()

	for _, intercept := range d.interceptors {
		intercept(ctx, env)
	}

	desc, ok := d.match(env)
	if !ok {
		span.SetStatus(codes.Error, "unhandled")
		return d.fail(ctx, in, fmt.Errorf("%w: %s", ErrNoHandler, describe(env)))
	}
	span.SetAttributes(attribute.String("skill.handler", desc.Name))

	resp, err := desc.Handle(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler error")
		return d.fail(ctx, in, fmt.Errorf("%s: %w", desc.Name, err))
	}
	if resp == nil {
		resp = in.Response.Build()
	}
	return resp
}

func (d *Dispatcher) match(env *models.RequestEnvelope) (Descriptor, bool) {
	for _, desc := range d.descriptors {
		if desc.CanHandle != nil && desc.CanHandle(env) {
			return desc, true
		}
	}
	return Descriptor{}, false
}

func (d *Dispatcher) newInput(env *models.RequestEnvelope) *Input {
	return &Input{
		Envelope:   env,
		Attributes: store.NewManager(d.deps.Attributes, UserID(env)),
		Sync:       d.deps.Sync,
		Response:   NewResponseBuilder(),
		Now:        d.deps.Now,
	}
}

func (d *Dispatcher) fail(ctx context.Context, in *Input, err error) *models.ResponseEnvelope {
	// discard anything the failed handler staged
	in.Response = NewResponseBuilder()
	if d.onError == nil {
		slog.Error("error handled", "error", err)
		return in.Response.Build()
	}
	return d.onError(ctx, in, err)
}

func describe(env *models.RequestEnvelope) string {
	if name := IntentName(env); name != "" {
		return RequestType(env) + "/" + name
	}
	return RequestType(env)
}
