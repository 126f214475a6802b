package ocsigenserver

import (
	"context"

	"github.com/huangered/ocsigenserver/i18n"
)

// Reconstruct decodes a typed value from the flat form of one request:
// unordered pairs, uploaded files keyed by field name, and the ordered
// suffix segments. Recognized keys are consumed from a private working
// copy; the submitted input is never mutated. When more than one option
// is given the last one wins.
func Reconstruct[T any](ctx context.Context, p Param[T], f Flat, files Files, opts ...DecodeOpt) (T, error) {
	var zero T
	v, _, err := reconstruct(ctx, p, f, files, false, opts)
	if err != nil {
		return zero, err
	}
	return v, nil
}

// ReconstructWithMeta decodes like Reconstruct and additionally collects
// per-key presence metadata. The presence map records which wire keys were
// actually seen, which values came from defaults, which arrived through the
// suffix channel, and which keys were repeated.
func ReconstructWithMeta[T any](ctx context.Context, p Param[T], f Flat, files Files, opts ...DecodeOpt) (Decoded[T], error) {
	v, pm, err := reconstruct(ctx, p, f, files, true, opts)
	if err != nil {
		return Decoded[T]{}, err
	}
	return Decoded[T]{Value: v, Presence: pm}, nil
}

// SafeReconstruct decodes without an error return; failures surface as the
// Issues value and ok=false.
func SafeReconstruct[T any](ctx context.Context, p Param[T], f Flat, files Files, opts ...DecodeOpt) (v T, iss Issues, ok bool) {
	v, err := Reconstruct(ctx, p, f, files, opts...)
	if err == nil {
		return v, nil, true
	}
	var zero T
	if got, k := AsIssues(err); k {
		return zero, got, false
	}
	return zero, Issues{Issue{Code: CodeInvalidValue, Message: err.Error(), Cause: err}}, false
}

func reconstruct[T any](ctx context.Context, p Param[T], f Flat, files Files, meta bool, opts []DecodeOpt) (T, PresenceMap, error) {
	var zero T
	if p == nil {
		return zero, nil, Issues{Issue{Code: CodeInvalidShape, Message: "nil parameter description"}}
	}
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if meta && !opt.Presence.Collect && len(opt.Presence.Include) == 0 && len(opt.Presence.Exclude) == 0 {
		opt.Presence.Collect = true
	}
	sc := NewScope(f, files, opt, opt.Presence.Collect)
	v, err := p.Reconstruct(ctx, sc, ParamNames(p))
	if err != nil {
		return zero, nil, localizeIssues(ctx, err)
	}
	if n := sc.SegmentsLeft(); n > 0 {
		return zero, nil, Issues{{
			Code:    CodeUnconsumedSuffix,
			Message: i18n.TLang(LangOf(ctx), CodeUnconsumedSuffix, nil),
			Params:  map[string]any{"left": n},
		}}
	}
	return v, applyPresenceOptions(sc.PresenceMap(), opt.Presence), nil
}

// localizeIssues rewrites issue messages for the language carried by ctx.
// Issues are born with the process-wide language; a per-request language set
// by WithLang overrides them on the way out of the decode call.
func localizeIssues(ctx context.Context, err error) error {
	lang := LangOf(ctx)
	if lang == "" {
		return err
	}
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		it.Message = i18n.TLang(lang, it.Code, nil)
		out[i] = it
	}
	return out
}

// ReconstructAny decodes through a type-erased description. AnyParam
// satisfies Param[any], so this is Reconstruct at the erased type; the
// service table uses it to dispatch without knowing parameter types.
func ReconstructAny(ctx context.Context, a AnyParam, f Flat, files Files, opts ...DecodeOpt) (any, error) {
	return Reconstruct[any](ctx, a, f, files, opts...)
}
