package ocsigenserver

// Package ocsigenserver provides:
//
// - Typed descriptions of service parameters (Param[T]) with lockstep
//   Construct (value -> flat key/value pairs + URL suffix segments) and
//   Reconstruct (flat pairs + uploads + suffix segments -> value)
// - A stable error model via Issues (parameter name, code, message)
// - Metadata for Presence collection and preserve-encoding through WithMeta APIs
// - A structural name Mirror for form renderers and a shape Fingerprint for
//   telling apart services registered at the same path
//
// Design policy:
// - Keep only engine APIs in the root package; put detailed implementations under internal/.
// - Place combinators under param/, codecs under codec/, YAML definitions under
//   svcdef/, the dispatch table under service/, and the CLI under cmd/paramgen.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	p := param.Prod(param.Int("age"), param.String("name"))
//	flat, err := ocsigenserver.Construct(p, v)
//	v, err := ocsigenserver.Reconstruct(ctx, p, flat, nil)
//	dm, err := ocsigenserver.ReconstructWithMeta(ctx, p, flat, nil)
