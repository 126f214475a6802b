package param_test

import (
	"context"
	"regexp"
	"testing"

	ocsigenserver "github.com/huangered/ocsigenserver"
	p "github.com/huangered/ocsigenserver/param"
)

func TestSuffix_SegmentsInOrder(t *testing.T) {
	s := p.Suffix(p.Prod(p.Int("year"), p.String("word")))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(s, ocsigenserver.PairOf(380, "yo"))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(flat.Pairs) != 0 {
		t.Fatalf("suffix values must not appear as pairs, got %v", flat.Pairs)
	}
	if len(flat.Suffix) != 2 || flat.Suffix[0] != "380" || flat.Suffix[1] != "yo" {
		t.Fatalf("unexpected suffix: %v", flat.Suffix)
	}

	v, err := ocsigenserver.Reconstruct(ctx, s, flat, nil)
	if err != nil || v.First != 380 || v.Second != "yo" {
		t.Fatalf("decode: v=%+v err=%v", v, err)
	}
}

func TestSuffix_MissingSegment(t *testing.T) {
	s := p.Suffix(p.Prod(p.Int("year"), p.String("word")))
	flat := ocsigenserver.Flat{Suffix: []string{"380"}}
	_, err := ocsigenserver.Reconstruct(context.Background(), s, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeMissingParameter || it.Name != "word" {
		t.Fatalf("expected missing_parameter at word, got %+v", it)
	}
}

func TestSuffix_SurplusSegments(t *testing.T) {
	s := p.Suffix(p.Int("year"))
	flat := ocsigenserver.Flat{Suffix: []string{"380", "extra"}}
	_, err := ocsigenserver.Reconstruct(context.Background(), s, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeUnconsumedSuffix {
		t.Fatalf("expected unconsumed_suffix, got %+v", it)
	}
}

func TestSuffix_SurplusSegmentsWithoutCapture(t *testing.T) {
	pp := p.Int("n")
	flat := ocsigenserver.Flat{
		Suffix: []string{"stray"},
		Pairs:  []ocsigenserver.KV{{Key: "n", Value: "1"}},
	}
	_, err := ocsigenserver.Reconstruct(context.Background(), pp, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeUnconsumedSuffix {
		t.Fatalf("expected unconsumed_suffix, got %+v", it)
	}
}

func TestSuffix_MalformedSegment(t *testing.T) {
	s := p.Suffix(p.Int("year"))
	flat := ocsigenserver.Flat{Suffix: []string{"not-a-year"}}
	_, err := ocsigenserver.Reconstruct(context.Background(), s, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeInvalidValue || it.Name != "year" {
		t.Fatalf("expected invalid_value at year, got %+v", it)
	}
}

func TestSuffixProd_MixesChannels(t *testing.T) {
	sp := p.SuffixProd(p.Suffix(p.Int("id")), p.String("q"))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(sp, ocsigenserver.PairOf(7, "x"))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(flat.Suffix) != 1 || flat.Suffix[0] != "7" {
		t.Fatalf("unexpected suffix: %v", flat.Suffix)
	}
	if len(flat.Pairs) != 1 || flat.Pairs[0].Key != "q" {
		t.Fatalf("unexpected pairs: %v", flat.Pairs)
	}

	v, err := ocsigenserver.Reconstruct(ctx, sp, flat, nil)
	if err != nil || v.First != 7 || v.Second != "x" {
		t.Fatalf("decode: v=%+v err=%v", v, err)
	}
}

func TestSuffix_CannotNest(t *testing.T) {
	expectShapePanic(t, func() {
		p.Suffix(p.Suffix(p.Int("a")))
	})
	expectShapePanic(t, func() {
		p.Prod(p.Suffix(p.Int("a")), p.String("b"))
	})
	expectShapePanic(t, func() {
		p.Opt(p.Suffix(p.Int("a")))
	})
}

func TestAllSuffix_DrainsRemainingSegments(t *testing.T) {
	s := p.Suffix(p.Prod(p.Int("year"), p.AllSuffix("rest")))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(s, ocsigenserver.PairOf(2024, []string{"a", "b"}))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(flat.Suffix) != 3 || flat.Suffix[2] != "b" {
		t.Fatalf("unexpected suffix: %v", flat.Suffix)
	}

	v, err := ocsigenserver.Reconstruct(ctx, s, flat, nil)
	if err != nil || v.First != 2024 || len(v.Second) != 2 || v.Second[1] != "b" {
		t.Fatalf("decode: v=%+v err=%v", v, err)
	}

	// zero remaining segments decode to an empty slice
	v, err = ocsigenserver.Reconstruct(ctx, s, ocsigenserver.Flat{Suffix: []string{"2024"}}, nil)
	if err != nil || len(v.Second) != 0 {
		t.Fatalf("empty tail: v=%+v err=%v", v, err)
	}
}

func TestAllSuffixString_JoinsWithSlash(t *testing.T) {
	s := p.Suffix(p.AllSuffixString("path"))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(s, "docs/intro/start")
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(flat.Suffix) != 3 || flat.Suffix[0] != "docs" {
		t.Fatalf("unexpected suffix: %v", flat.Suffix)
	}

	v, err := ocsigenserver.Reconstruct(ctx, s, flat, nil)
	if err != nil || v != "docs/intro/start" {
		t.Fatalf("decode: v=%q err=%v", v, err)
	}
}

func TestAllSuffixRegexp_ConstrainsJoinedTail(t *testing.T) {
	s := p.Suffix(p.AllSuffixRegexp("ver", regexp.MustCompile(`v([0-9]+)/.*`), "$1"))
	ctx := context.Background()

	v, err := ocsigenserver.Reconstruct(ctx, s, ocsigenserver.Flat{Suffix: []string{"v2", "readme"}}, nil)
	if err != nil || v != "2" {
		t.Fatalf("decode: v=%q err=%v", v, err)
	}

	_, err = ocsigenserver.Reconstruct(ctx, s, ocsigenserver.Flat{Suffix: []string{"latest"}}, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeRegexpMismatch {
		t.Fatalf("expected regexp_mismatch, got %+v", it)
	}
}

func TestSuffix_TrailingOption(t *testing.T) {
	s := p.Suffix(p.Prod(p.Int("year"), p.Opt(p.String("month"))))
	ctx := context.Background()

	v, err := ocsigenserver.Reconstruct(ctx, s, ocsigenserver.Flat{Suffix: []string{"2024"}}, nil)
	if err != nil || v.First != 2024 || v.Second != nil {
		t.Fatalf("short path: v=%+v err=%v", v, err)
	}

	v, err = ocsigenserver.Reconstruct(ctx, s, ocsigenserver.Flat{Suffix: []string{"2024", "05"}}, nil)
	if err != nil || v.Second == nil || *v.Second != "05" {
		t.Fatalf("long path: v=%+v err=%v", v, err)
	}
}

func TestSuffix_PresenceMarksChannel(t *testing.T) {
	s := p.Suffix(p.Int("year"))
	dm, err := ocsigenserver.ReconstructWithMeta(context.Background(), s, ocsigenserver.Flat{Suffix: []string{"2024"}}, nil)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if dm.Presence["year"]&ocsigenserver.PresenceFromSuffix == 0 {
		t.Fatalf("expected PresenceFromSuffix at year, got %v", dm.Presence)
	}
}

func TestSumInsideSuffix_DiscriminatorRidesPairs(t *testing.T) {
	s := p.SuffixProd(p.Suffix(p.Sum(p.Int("n"), p.String("w"))), p.String("q"))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(s, ocsigenserver.PairOf(
		ocsigenserver.EitherFirst[int, string](5), "x",
	))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if len(flat.Suffix) != 1 || flat.Suffix[0] != "5" {
		t.Fatalf("unexpected suffix: %v", flat.Suffix)
	}
	if len(flat.Pairs) != 2 || flat.Pairs[0].Key != "__sum0" {
		t.Fatalf("discriminator must ride the pair channel, got %v", flat.Pairs)
	}

	v, err := ocsigenserver.Reconstruct(ctx, s, flat, nil)
	if err != nil || v.First.First != 5 || v.Second != "x" {
		t.Fatalf("decode: v=%+v err=%v", v, err)
	}
}
