package opcode

import (
	"context"
	"fmt"

	"github.com/gogpu/rawtile"
	"github.com/gogpu/rawtile/image"
	"github.com/gogpu/rawtile/task"
)

// List is an ordered opcode list for one pipeline stage.
type List struct {
	// Stage is 1 for the raw image, 2 after linearization and 3 after
	// demosaicing.
	Stage   int
	Opcodes []Opcode
}

// NewList returns an empty list for stage.
func NewList(stage int) *List {
	return &List{Stage: stage}
}

// Append adds op to the end of the list.
func (l *List) Append(op Opcode) { l.Opcodes = append(l.Opcodes, op) }

// IsEmpty reports whether the list has no opcodes.
func (l *List) IsEmpty() bool { return len(l.Opcodes) == 0 }

// MinVersion returns the oldest reader version able to run the list.
// Optional opcodes count only when includeOptional is set.
func (l *List) MinVersion(includeOptional bool) uint32 {
	var v uint32
	for _, op := range l.Opcodes {
		h := op.Base()
		if includeOptional || !h.Optional() {
			v = max(v, h.MinVersion)
		}
	}
	return v
}

// Parse decodes a serialized list for stage. An empty input is an empty
// list.
func Parse(data []byte, stage int) (*List, error) {
	l := NewList(stage)
	if len(data) == 0 {
		return l, nil
	}
	r := newReader(data)
	count := r.uint32()
	// Every record takes at least 16 bytes.
	if r.err == nil && uint64(count)*16 > uint64(r.remaining()) {
		return nil, fmt.Errorf("opcode: %d opcodes in %d bytes: %w", count, len(data), rawtile.ErrBadFormat)
	}
	for i := range count {
		id := ID(r.uint32())
		h := Header{MinVersion: r.uint32(), Flags: Flags(r.uint32())}
		size := r.uint32()
		payload := r.bytes(int(size))
		if r.err != nil {
			return nil, fmt.Errorf("opcode: record %d: %w", i, r.err)
		}
		op, err := decode(id, h, payload)
		if err != nil {
			return nil, err
		}
		l.Append(op)
	}
	if err := r.done("list"); err != nil {
		return nil, err
	}
	rawtile.Logger().Debug("opcode: parsed list", "stage", stage, "count", count)
	return l, nil
}

// Bytes serializes the list.
func (l *List) Bytes() []byte {
	w := &writer{}
	w.uint32(uint32(len(l.Opcodes)))
	for _, op := range l.Opcodes {
		h := op.Base()
		w.uint32(uint32(op.ID()))
		w.uint32(h.MinVersion)
		w.uint32(uint32(h.Flags))

		payload := &writer{}
		op.putData(payload)
		w.uint32(uint32(len(payload.buf)))
		w.bytes(payload.buf)
	}
	return w.buf
}

// ApplyOption configures List.Apply.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	preview bool
}

// ForPreview skips opcodes flagged SkipIfPreview.
func ForPreview() ApplyOption {
	return func(o *applyOptions) { o.preview = true }
}

// aboutToApply decides whether op runs.
func aboutToApply(op Opcode, neg Negative, preview bool) (bool, error) {
	h := op.Base()
	switch {
	case h.SkipIfPreview() && preview:
		return false, nil
	case h.MinVersion > CurrentVersion && h.fromStream:
		if !h.Optional() {
			return false, fmt.Errorf("opcode: %s needs version %08x: %w", op.ID(), h.MinVersion, rawtile.ErrBadFormat)
		}
		rawtile.Logger().Warn("opcode: skipping optional opcode from a newer version",
			"opcode", op.ID().String(),
			"version", fmt.Sprintf("%08x", h.MinVersion))
		return false, nil
	case !op.IsValidForNegative(neg):
		return false, fmt.Errorf("opcode: %s parameters do not fit the negative: %w", op.ID(), rawtile.ErrBadFormat)
	}
	return !op.IsNOP(), nil
}

// Apply runs the list on im in order and returns the final image.
func (l *List) Apply(ctx context.Context, h *task.Host, neg Negative, im *image.Image, opts ...ApplyOption) (*image.Image, error) {
	var o applyOptions
	for _, opt := range opts {
		opt(&o)
	}
	env := &Env{Host: h, Negative: neg, Stage: l.Stage}
	for i, op := range l.Opcodes {
		run, err := aboutToApply(op, neg, o.preview)
		if err != nil {
			return nil, err
		}
		if !run {
			continue
		}
		rawtile.Logger().Debug("opcode: apply",
			"stage", l.Stage,
			"index", i,
			"opcode", op.ID().String(),
			"bounds", im.Bounds())
		next, err := op.Apply(ctx, env, im)
		if err != nil {
			return nil, fmt.Errorf("opcode: stage %d opcode %d: %w", l.Stage, i, err)
		}
		im = next
	}
	return im, nil
}
