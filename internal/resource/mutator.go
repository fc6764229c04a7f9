package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/warehouse-console/internal/forms"
	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	"github.com/angelmondragon/warehouse-console/pkg/enums"
	pkgerrors "github.com/angelmondragon/warehouse-console/pkg/errors"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
	"go.uber.org/multierr"
)

const failureTitle = "Error"

// Mutation describes one create/update/delete against the backend.
type Mutation struct {
	// Action names the mutation in logs, e.g. "create product".
	Action string

	// Input, when set, is validated first and its normalized copy passed to Do.
	Input any

	// Guard runs after validation and before any request.
	Guard func(ctx context.Context) error

	Do func(ctx context.Context, data any) error

	// Invalidates lists key prefixes to mark stale once Do succeeds.
	Invalidates []querycache.Key

	// Removes lists keys whose records no longer exist.
	Removes []querycache.Key

	Success Notice

	// SuccessFunc, when set, builds the success notice after Do returns.
	SuccessFunc func() Notice
}

type MutatorParams struct {
	Cache    *querycache.Cache
	Registry *Registry
	Notifier Notifier
	Logger   *logger.Logger
}

// Mutator applies the shared mutation contract: validate, request, invalidate
// and await the refetch of affected queries, then notify. Nothing is retried.
type Mutator struct {
	cache    *querycache.Cache
	registry *Registry
	notifier Notifier
	logg     *logger.Logger
}

func NewMutator(params MutatorParams) (*Mutator, error) {
	if params.Cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	notifier := params.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logg}
	}
	return &Mutator{cache: params.Cache, registry: registry, notifier: notifier, logg: logg}, nil
}

// Run executes mut. Validation failures return a CodeValidation error with
// field details and raise no notice; every other failure raises a destructive
// notice carrying the error text.
func (m *Mutator) Run(ctx context.Context, mut Mutation) error {
	ctx = m.logg.WithField(ctx, "mutation", mut.Action)

	var data any
	if mut.Input != nil {
		result := forms.Validate(mut.Input)
		if !result.Valid {
			return result.Err()
		}
		data = result.Data
	}

	if mut.Guard != nil {
		if err := mut.Guard(ctx); err != nil {
			m.fail(ctx, err)
			return err
		}
	}

	if err := mut.Do(ctx, data); err != nil {
		m.fail(ctx, err)
		return err
	}

	m.settle(ctx, mut)

	success := mut.Success
	if mut.SuccessFunc != nil {
		success = mut.SuccessFunc()
	}
	if success.Variant == "" {
		success.Variant = enums.NoticeVariantDefault
	}
	m.notifier.Notify(ctx, success)
	return nil
}

// settle brings the cache in line with the server after a successful mutation.
// Cache failures are logged, not returned: the write already happened and the
// affected keys stay stale, so the next read fetches again.
func (m *Mutator) settle(ctx context.Context, mut Mutation) {
	var errs error
	if len(mut.Removes) > 0 {
		errs = multierr.Append(errs, m.cache.Remove(ctx, mut.Removes...))
	}
	if len(mut.Invalidates) == 0 {
		m.logSettleErrors(ctx, errs)
		return
	}
	errs = multierr.Append(errs, m.cache.Invalidate(ctx, mut.Invalidates...))

	for _, q := range m.registry.Under(mut.Invalidates...) {
		if _, cached, err := m.cache.Get(ctx, q.Key); err != nil || !cached {
			continue
		}
		if _, err := m.cache.Refetch(ctx, q.Key, q.Fetch); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("refetch %s: %w", q.Key, err))
		}
	}
	m.logSettleErrors(ctx, errs)
}

// Invalidate marks keys stale outside a completed Run, e.g. when a multi-step
// write stopped halfway but its first step already landed. Failures are
// logged like settle failures.
func (m *Mutator) Invalidate(ctx context.Context, keys ...querycache.Key) {
	m.logSettleErrors(ctx, m.cache.Invalidate(ctx, keys...))
}

func (m *Mutator) logSettleErrors(ctx context.Context, errs error) {
	if errs != nil {
		m.logg.Warn(ctx, fmt.Sprintf("cache settle after mutation: %v", errs))
	}
}

func (m *Mutator) fail(ctx context.Context, err error) {
	m.logg.Error(ctx, "mutation failed", err)
	m.notifier.Notify(ctx, Notice{
		Title:       failureTitle,
		Description: Describe(err),
		Variant:     enums.NoticeVariantDestructive,
	})
}

type describer interface {
	Describe() string
}

// Describe renders err the way it is shown to the user: "<status>: <message>"
// for backend rejections and the verbatim transport error for network failures.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var d describer
	if errors.As(err, &d) {
		return d.Describe()
	}
	if statusErr, ok := apiclient.AsStatusError(err); ok {
		return statusErr.Error()
	}
	if typed := pkgerrors.As(err); typed != nil {
		if typed.Code() == pkgerrors.CodeDependency {
			if cause := errors.Unwrap(typed); cause != nil {
				return cause.Error()
			}
		}
		return typed.Message()
	}
	return err.Error()
}
