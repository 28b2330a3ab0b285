package llm

import (
	"context"
	"errors"
	"time"

	"nac-advisor/internal/shared/metrics"
	"nac-advisor/internal/shared/telemetry"
)

// Attempt describes one provider call made by the router.
type Attempt struct {
	RequestID    string
	Provider     string
	Model        string
	TaskType     string
	Usage        Usage
	Success      bool
	FallbackUsed bool
	Err          error
	Duration     time.Duration
}

// Recorder persists attempts. Recording errors never fail a completion.
type Recorder interface {
	Record(ctx context.Context, a Attempt) error
}

// Options configures a Router.
type Options struct {
	DefaultProvider string
	FallbackOrder   []string
	Timeout         time.Duration
	Prices          PriceTable
	Recorder        Recorder
}

// Router dispatches requests to adapters and falls back across providers.
type Router struct {
	adapters        map[string]Adapter
	unavailable     map[string]error
	defaultProvider string
	fallbackOrder   []string
	timeout         time.Duration
	prices          PriceTable
	recorder        Recorder
}

// NewRouter builds a router over adapters. unavailable holds providers that are
// known but could not be constructed, keyed by id, with the construction error.
func NewRouter(adapters []Adapter, unavailable map[string]error, opts Options) *Router {
	r := &Router{
		adapters:        make(map[string]Adapter, len(adapters)),
		unavailable:     make(map[string]error, len(unavailable)),
		defaultProvider: NormalizeProvider(opts.DefaultProvider),
		timeout:         opts.Timeout,
		prices:          opts.Prices,
		recorder:        opts.Recorder,
	}
	for _, a := range adapters {
		r.adapters[NormalizeProvider(a.ID())] = a
	}
	for id, err := range unavailable {
		r.unavailable[NormalizeProvider(id)] = err
	}
	for _, id := range opts.FallbackOrder {
		r.fallbackOrder = append(r.fallbackOrder, NormalizeProvider(id))
	}
	if r.prices == nil {
		r.prices = DefaultPrices()
	}
	return r
}

// Providers reports which provider ids are usable and which are disabled.
func (r *Router) Providers() (available []string, disabled []string) {
	for _, id := range r.fallbackOrder {
		if _, ok := r.adapters[id]; ok {
			available = append(available, id)
		} else if _, ok := r.unavailable[id]; ok {
			disabled = append(disabled, id)
		}
	}
	return available, disabled
}

// Complete executes req against its provider. When that fails and fallback is
// enabled, the remaining providers of the fallback order are tried in sequence;
// the first success is returned with FallbackUsed set. If all fail, the primary
// provider's error is returned.
func (r *Router) Complete(ctx context.Context, req Request) (Response, error) {
	primary := NormalizeProvider(req.Provider)
	if primary == "" {
		primary = r.defaultProvider
	}

	resp, err := r.attempt(ctx, primary, req, false)
	if err == nil {
		return resp, nil
	}

	var unsupported *UnsupportedProviderError
	if !req.EnableFallback || errors.As(err, &unsupported) {
		r.logFailure(ctx, primary, req, err, false)
		return Response{}, err
	}

	for _, id := range r.fallbackOrder {
		if id == primary {
			continue
		}
		if _, ok := r.adapters[id]; !ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		next := req
		next.Provider = id
		next.Model = ""
		next.EnableFallback = false

		fbResp, fbErr := r.attempt(ctx, id, next, true)
		if fbErr != nil {
			continue
		}
		fbResp.FallbackUsed = true
		metrics.IncAIFallback(primary, id)
		telemetry.Warn("ai.fallback", map[string]any{
			"request_id": RequestIDFromContext(ctx),
			"primary":    primary,
			"provider":   id,
			"error":      err.Error(),
		})
		return fbResp, nil
	}

	r.logFailure(ctx, primary, req, err, true)
	return Response{}, err
}

func (r *Router) attempt(ctx context.Context, id string, req Request, fallback bool) (Response, error) {
	adapter, ok := r.adapters[id]
	if !ok {
		if cause, disabled := r.unavailable[id]; disabled {
			return Response{}, cause
		}
		return Response{}, &UnsupportedProviderError{Provider: id}
	}

	callCtx := ctx
	cancel := func() {}
	if r.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	defer cancel()

	start := time.Now()
	resp, err := adapter.Complete(callCtx, req)
	elapsed := time.Since(start)

	if err != nil {
		err = r.classify(ctx, callCtx, id, err)
	} else {
		r.normalize(id, req, &resp)
	}

	cost := 0.0
	usage := Usage{}
	if resp.Usage != nil {
		usage = *resp.Usage
		cost = usage.CostEstimate
	}
	metrics.ObserveAIAttempt(id, err, elapsed, cost)

	model := resp.Model
	if model == "" {
		model = req.Model
	}
	fields := map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"provider":          id,
		"model":             model,
		"task_type":         req.TaskType,
		"fallback":          fallback,
		"duration_ms":       elapsed.Milliseconds(),
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"cost_estimate":     cost,
	}
	if err != nil {
		fields["error"] = err.Error()
		telemetry.Warn("ai.attempt", fields)
	} else {
		telemetry.Info("ai.attempt", fields)
	}

	r.record(ctx, Attempt{
		RequestID:    RequestIDFromContext(ctx),
		Provider:     id,
		Model:        model,
		TaskType:     req.TaskType,
		Usage:        usage,
		Success:      err == nil,
		FallbackUsed: fallback,
		Err:          err,
		Duration:     elapsed,
	})

	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// classify maps an adapter error onto the gateway taxonomy.
func (r *Router) classify(parent, callCtx context.Context, id string, err error) error {
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Provider: id, After: r.timeout, Err: err}
	}
	var providerErr *ProviderError
	var missing *MissingCredentialError
	if errors.As(err, &providerErr) || errors.As(err, &missing) {
		return err
	}
	return &ProviderError{Provider: id, Message: err.Error(), Err: err}
}

func (r *Router) normalize(id string, req Request, resp *Response) {
	resp.Provider = id
	if resp.Model == "" {
		resp.Model = req.Model
	}
	if resp.Usage == nil {
		return
	}
	if resp.Usage.TotalTokens == 0 {
		resp.Usage.TotalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	}
	price := r.priceFor(*resp)
	resp.Usage.CostEstimate = float64(resp.Usage.PromptTokens)*price.Input + float64(resp.Usage.CompletionTokens)*price.Output
}

// priceFor prices the model the adapter resolved, then the one the upstream
// reported, then the default row.
func (r *Router) priceFor(resp Response) Price {
	for _, model := range []string{resp.ResolvedModel, resp.Model} {
		if p, ok := r.prices.Match(model); ok {
			return p
		}
	}
	return r.prices[DefaultPriceKey]
}

func (r *Router) record(ctx context.Context, a Attempt) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(context.WithoutCancel(ctx), a); err != nil {
		telemetry.Warn("ai.usage_record_failed", map[string]any{
			"request_id": a.RequestID,
			"provider":   a.Provider,
			"error":      err.Error(),
		})
	}
}

func (r *Router) logFailure(ctx context.Context, primary string, req Request, err error, fallbackTried bool) {
	telemetry.Error("ai.failure", map[string]any{
		"request_id":     RequestIDFromContext(ctx),
		"provider":       primary,
		"model":          req.Model,
		"fallback_tried": fallbackTried,
		"error":          err.Error(),
	})
}
