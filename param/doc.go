// Package param provides the combinator DSL for service parameter
// descriptions.
//
// Overview
//   - Scalars: Int()/Int32()/Int64()/Float()/String()/Bool()/Checkbox()/File()
//     describe one named form field each.
//   - Projections: IntAs[T]/StringAs[T]/... project a scalar onto a domain
//     type with the same underlying kind.
//   - User types: User[T](name, codec) decodes through a Codec; Regexp()
//     constrains a string field with a pattern and a rewrite template.
//   - Products/sums: Prod(a, b) pairs two descriptions (names must be
//     disjoint), Sum(a, b) selects one of two alternatives through a
//     synthesized discriminator key.
//   - Optionality: Opt(p) turns absence into nil, Default(p, v) fills
//     absence with a value and records it in presence metadata.
//   - Repetition: Set(elem) reads every occurrence of one repeated key,
//     List(name, elem) reads "<name>.<index>."-prefixed element groups.
//   - Suffix: Suffix(p) moves a subtree onto the URL path-segment channel;
//     AllSuffix(name) captures the remaining segments.
//
// Entry points
//   - Describe parameters with the combinators here, then encode with
//     ocsigenserver.Construct and decode with ocsigenserver.Reconstruct.
//   - ocsigenserver.ParamNames exposes the exact wire key of every field for
//     form rendering.
//
// File layout (roles)
//   - scalars.go: named scalar leaves and their domain-type projections.
//   - user.go: codec-backed leaves and pattern-constrained strings.
//   - coords.go: image-click coordinate leaves (name.x / name.y).
//   - combinators.go: Prod/Sum/Opt/Default/Check/Unit/Any and arity helpers.
//   - setlist.go: repeated-key sets and indexed lists.
//   - suffix.go: path-segment capture.
//
// Design guidelines
//   - Definition-time misuse (reserved names, name collisions, doubled
//     suffixes) panics with a *ShapeError; request decoding never panics.
//   - Decoding consumes the keys it recognizes, so combinators compose
//     without observing each other's input.
//   - The first decode failure aborts the whole walk; a value is either
//     complete or absent.
//
// Example (quickstart)
//
//	p := param.Prod(param.Int("age"), param.String("name"))
//	flat, _ := ocsigenserver.Construct(p, ocsigenserver.PairOf(34, "ana"))
//	// flat.Pairs = [{age 34} {name ana}]
//	v, err := ocsigenserver.Reconstruct(ctx, p, flat, nil)
//	_ = v // Pair[int, string]{First: 34, Second: "ana"}
//	_ = err
package param
