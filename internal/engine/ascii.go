package engine

import (
	"context"
	"strings"
	"time"

	"github.com/roach88/onoff/internal/codec"
	"github.com/roach88/onoff/internal/store"
)

// asciiRange is the modulus mapping a raw count to a 7-bit character.
const asciiRange = 128

// Checksum returns the 7-bit parity of two channel bytes.
// It detects some corruption; it is not an integrity guarantee.
func Checksum(a, b int) int {
	return (a ^ b) & 0x7F
}

// RecordASCII stores one hour of the dual-channel variant: each count maps
// directly to a 7-bit character and the record carries their checksum.
func (e *Engine) RecordASCII(ctx context.Context, clones, views int64, hour int, day string) (rec store.Record, err error) {
	defer e.observe(ctx, OpRecordASCII, time.Now(), &err)

	key, day, err := e.key(hour, day)
	if err != nil {
		return store.Record{}, err
	}

	clonesByte := int(codec.NonNegativeMod(clones, asciiRange))
	viewsByte := int(codec.NonNegativeMod(views, asciiRange))
	sum := Checksum(clonesByte, viewsByte)

	rec = store.Record{
		ID:        e.ids.Generate(),
		Namespace: e.namespace,
		Kind:      store.KindASCII,
		Day:       day,
		Hour:      hour,
		Symbol:    string([]byte{byte(clonesByte), byte(viewsByte)}),
		Raw: store.Raw{
			Clones:     clones,
			Views:      views,
			ClonesByte: clonesByte,
			ViewsByte:  viewsByte,
		},
		Timestamp: e.clock.Now().UTC(),
		Checksum:  &sum,
	}

	if err := e.store.Put(ctx, key, rec); err != nil {
		return store.Record{}, &StoreError{Op: "put", Key: key, Err: err}
	}

	e.logger.Info("ascii signal recorded",
		"key", key,
		"clones_byte", clonesByte,
		"views_byte", viewsByte,
		"checksum", sum,
	)
	return rec, nil
}

// Verify recomputes the checksum of the record at (day, hour) from its
// stored channel bytes and compares it with the stored checksum.
//
// Returns a *NotFoundError when there is no record. A record without a
// checksum reports false.
func (e *Engine) Verify(ctx context.Context, hour int, day string) (ok bool, err error) {
	defer e.observe(ctx, OpVerify, time.Now(), &err)

	key, _, err := e.key(hour, day)
	if err != nil {
		return false, err
	}
	rec, err := e.store.Get(ctx, key)
	if err != nil {
		return false, &StoreError{Op: "get", Key: key, Err: err}
	}
	if rec == nil {
		return false, &NotFoundError{Key: key}
	}
	if rec.Checksum == nil {
		e.logger.Debug("verify on record without checksum", "key", key, "kind", rec.Kind)
		return false, nil
	}

	ok = Checksum(rec.Raw.ClonesByte, rec.Raw.ViewsByte) == *rec.Checksum
	e.logger.Debug("verify", "key", key, "ok", ok)
	return ok, nil
}

// ReconstructASCII concatenates both channel characters of each hour in
// [startHour, endHour]. A missing hour, or one holding a baseN record,
// contributes two sentinels.
func (e *Engine) ReconstructASCII(ctx context.Context, startHour, endHour int, day string, opts ReconstructOptions) (msg string, err error) {
	defer e.observe(ctx, OpReconstructASCII, time.Now(), &err)

	keys, day, err := e.rangeKeys(startHour, endHour, day)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(2 * len(keys))
	for _, rec := range e.store.GetMany(ctx, keys) {
		if rec == nil || rec.Kind != store.KindASCII || len(rec.Symbol) != 2 {
			b.WriteByte(codec.Sentinel)
			b.WriteByte(codec.Sentinel)
			continue
		}
		b.WriteString(rec.Symbol)
	}

	msg = b.String()
	if opts.Trim {
		msg = strings.Trim(msg, string(codec.Sentinel))
	}

	e.logger.Debug("ascii message reconstructed",
		"day", day,
		"start_hour", startHour,
		"end_hour", endHour,
		"length", len(msg),
	)
	return msg, nil
}
