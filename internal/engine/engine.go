package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/onoff/internal/codec"
	"github.com/roach88/onoff/internal/daykey"
	"github.com/roach88/onoff/internal/store"
)

// Engine records hourly signals and reconstructs messages from them.
//
// All state lives in the store. An Engine holds no mutable fields after
// construction and is safe for concurrent use as long as its store is.
type Engine struct {
	store     store.Store
	namespace string
	clock     daykey.Clock
	logger    *slog.Logger
	metrics   MetricsRecorder
	ids       IDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithNamespace sets the partition all keys are written under.
// Default: "default".
func WithNamespace(ns string) Option {
	return func(e *Engine) {
		e.namespace = ns
	}
}

// WithClock sets the clock used for record timestamps and the default day.
func WithClock(c daykey.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the operation metrics sink.
func WithMetrics(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithIDGenerator sets the generator for record write IDs.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.ids = g
		}
	}
}

// ReconstructOptions controls message reconstruction.
type ReconstructOptions struct {
	// Trim strips leading and trailing sentinels from the result.
	// Interior sentinels are always kept.
	Trim bool
}

// New creates an Engine over s.
func New(s store.Store, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, errors.New("engine: store is required")
	}

	e := &Engine{
		store:     s,
		namespace: daykey.DefaultNamespace,
		clock:     daykey.SystemClock{},
		logger:    slog.Default(),
		metrics:   noopMetrics{},
		ids:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}

	ns, err := daykey.NormalizeNamespace(e.namespace)
	if err != nil {
		return nil, invalid("namespace", err)
	}
	e.namespace = ns
	e.logger = e.logger.With("namespace", ns)

	return e, nil
}

// Namespace returns the normalized namespace.
func (e *Engine) Namespace() string { return e.namespace }

// RecordSignal derives the base-N symbol for rawCount and stores it for
// (namespace, day, hour), replacing any earlier record. An empty day means
// the clock's current UTC day.
func (e *Engine) RecordSignal(ctx context.Context, base int, rawCount int64, hour int, day string) (rec store.Record, err error) {
	defer e.observe(ctx, OpRecord, time.Now(), &err)

	c, err := codec.New(base)
	if err != nil {
		return store.Record{}, invalid("base", err)
	}
	key, day, err := e.key(hour, day)
	if err != nil {
		return store.Record{}, err
	}

	symbol, digitIndex := c.EncodeDigit(rawCount)
	rec = store.Record{
		ID:        e.ids.Generate(),
		Namespace: e.namespace,
		Kind:      store.KindBaseN,
		Day:       day,
		Hour:      hour,
		Base:      base,
		Symbol:    string(symbol),
		Raw:       store.Raw{Count: rawCount, DigitIndex: digitIndex},
		Timestamp: e.clock.Now().UTC(),
	}

	if err := e.store.Put(ctx, key, rec); err != nil {
		return store.Record{}, &StoreError{Op: "put", Key: key, Err: err}
	}

	e.logger.Info("signal recorded",
		"key", key,
		"base", base,
		"symbol", rec.Symbol,
		"digit_index", digitIndex,
	)
	return rec, nil
}

// DecodeSignal is an alias of RecordSignal kept for callers of the older
// name. It writes; it does not read.
func (e *Engine) DecodeSignal(ctx context.Context, base int, rawCount int64, hour int, day string) (store.Record, error) {
	return e.RecordSignal(ctx, base, rawCount, hour, day)
}

// ReconstructMessage reads hours [startHour, endHour] of day and decodes
// the stitched base-N symbols into a base-36 message.
//
// An absent hour, an hour whose read failed, or an hour holding an ascii
// record all contribute a sentinel. The call never writes.
func (e *Engine) ReconstructMessage(ctx context.Context, base, startHour, endHour int, day string, opts ReconstructOptions) (msg string, err error) {
	defer e.observe(ctx, OpReconstruct, time.Now(), &err)

	c, err := codec.New(base)
	if err != nil {
		return "", invalid("base", err)
	}
	keys, day, err := e.rangeKeys(startHour, endHour, day)
	if err != nil {
		return "", err
	}

	recs := e.store.GetMany(ctx, keys)

	var symbols strings.Builder
	symbols.Grow(len(keys))
	for i, rec := range recs {
		if rec == nil || rec.Kind != store.KindBaseN || len(rec.Symbol) != 1 {
			if rec != nil {
				e.logger.Debug("hour treated as missing", "key", keys[i], "kind", rec.Kind)
			}
			symbols.WriteByte(codec.Sentinel)
			continue
		}
		symbols.WriteString(rec.Symbol)
	}

	msg, err = c.DecodeSymbols(symbols.String())
	if err != nil {
		return "", &DecodeError{Day: day, Base: base, Err: err}
	}
	if opts.Trim {
		msg = strings.Trim(msg, string(codec.Sentinel))
	}

	e.logger.Debug("message reconstructed",
		"day", day,
		"start_hour", startHour,
		"end_hour", endHour,
		"base", base,
		"length", len(msg),
	)
	return msg, nil
}

// ClearDay removes every record of day in this engine's namespace.
// An empty day means the clock's current UTC day.
func (e *Engine) ClearDay(ctx context.Context, day string) (err error) {
	defer e.observe(ctx, OpClearDay, time.Now(), &err)

	day, err = e.resolveDay(day)
	if err != nil {
		return err
	}
	prefix, err := daykey.DayPrefix(day, e.namespace)
	if err != nil {
		return invalid("day", err)
	}
	if err := e.store.DeleteRange(ctx, prefix); err != nil {
		return &StoreError{Op: "delete_range", Key: prefix, Err: err}
	}

	e.logger.Info("day cleared", "day", day, "prefix", prefix)
	return nil
}

// ClearAll removes every signal record in the store, across all days and
// namespaces.
func (e *Engine) ClearAll(ctx context.Context) (err error) {
	defer e.observe(ctx, OpClearAll, time.Now(), &err)

	if err := e.store.DeleteRange(ctx, daykey.GlobalPrefix); err != nil {
		return &StoreError{Op: "delete_range", Key: daykey.GlobalPrefix, Err: err}
	}

	e.logger.Info("all signals cleared")
	return nil
}

// Lookup returns the record stored for one hour, or nil when there is none.
func (e *Engine) Lookup(ctx context.Context, hour int, day string) (rec *store.Record, err error) {
	defer e.observe(ctx, OpLookup, time.Now(), &err)

	key, _, err := e.key(hour, day)
	if err != nil {
		return nil, err
	}
	rec, err = e.store.Get(ctx, key)
	if err != nil {
		return nil, &StoreError{Op: "get", Key: key, Err: err}
	}
	e.logger.Debug("lookup", "key", key, "found", rec != nil)
	return rec, nil
}

// resolveDay defaults an empty day to today and validates it.
func (e *Engine) resolveDay(day string) (string, error) {
	if day == "" {
		day = daykey.Today(e.clock)
	}
	if err := daykey.ValidateDay(day); err != nil {
		return "", invalid("day", err)
	}
	return day, nil
}

// key validates hour and day and builds the storage key.
func (e *Engine) key(hour int, day string) (string, string, error) {
	if err := daykey.ValidateHour(hour); err != nil {
		return "", "", invalid("hour", err)
	}
	day, err := e.resolveDay(day)
	if err != nil {
		return "", "", err
	}
	key, err := daykey.Key(hour, day, e.namespace)
	if err != nil {
		return "", "", invalid("key", err)
	}
	return key, day, nil
}

// rangeKeys validates an hour range and returns one key per hour.
func (e *Engine) rangeKeys(startHour, endHour int, day string) ([]string, string, error) {
	if err := daykey.ValidateHour(startHour); err != nil {
		return nil, "", invalid("start_hour", err)
	}
	if err := daykey.ValidateHour(endHour); err != nil {
		return nil, "", invalid("end_hour", err)
	}
	if startHour > endHour {
		return nil, "", &ValidationError{
			Field:   "range",
			Message: fmt.Sprintf("start hour %d must be <= end hour %d", startHour, endHour),
		}
	}
	day, err := e.resolveDay(day)
	if err != nil {
		return nil, "", err
	}

	keys := make([]string, 0, endHour-startHour+1)
	for hour := startHour; hour <= endHour; hour++ {
		key, err := daykey.Key(hour, day, e.namespace)
		if err != nil {
			return nil, "", invalid("key", err)
		}
		keys = append(keys, key)
	}
	return keys, day, nil
}
