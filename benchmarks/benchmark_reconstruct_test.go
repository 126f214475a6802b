package ocsigenserver_test

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"

	ocsigenserver "github.com/huangered/ocsigenserver"
	p "github.com/huangered/ocsigenserver/param"
)

// ---- Helpers ----

func searchDesc() ocsigenserver.Param[ocsigenserver.Pair[int, ocsigenserver.Pair[*string, []string]]] {
	return p.Prod3(
		p.Default(p.Int("year"), 2026),
		p.Opt(p.String("q")),
		p.Set(p.String("tags")),
	)
}

func smallQuery() string { return "year=2024&q=pelican&tags=bird" }

// generateHugeSetQuery returns "year=2024&tags=t0&tags=t1&..." with n tag
// occurrences.
func generateHugeSetQuery(n int) string {
	var b strings.Builder
	b.Grow(16 + n*10)
	b.WriteString("year=2024")
	for i := 0; i < n; i++ {
		b.WriteString("&tags=t")
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func itemsDesc() ocsigenserver.Param[[]ocsigenserver.Pair[string, int]] {
	return p.List("items", p.Prod(p.String("sku"), p.Int("qty")))
}

// generateHugeListPairs returns items.0.sku=.. items.0.qty=.. for n elements.
func generateHugeListPairs(n int) ocsigenserver.RawPairs {
	out := make(ocsigenserver.RawPairs, 0, 2*n)
	for i := 0; i < n; i++ {
		idx := strconv.Itoa(i)
		out = append(out,
			ocsigenserver.KV{Key: "items." + idx + ".sku", Value: "sku-" + idx},
			ocsigenserver.KV{Key: "items." + idx + ".qty", Value: idx},
		)
	}
	return out
}

func generateHugeListValue(n int) []ocsigenserver.Pair[string, int] {
	out := make([]ocsigenserver.Pair[string, int], 0, n)
	for i := 0; i < n; i++ {
		out = append(out, ocsigenserver.PairOf("sku-"+strconv.Itoa(i), i))
	}
	return out
}

func mustParseQuery(tb testing.TB, raw string) ocsigenserver.RawPairs {
	tb.Helper()
	pairs, err := ocsigenserver.ParseQuery(raw)
	if err != nil {
		tb.Fatalf("parse query failed: %v", err)
	}
	return pairs
}

// ---- Micro benchmarks (small inputs) ----

func Benchmark_Reconstruct_Small(b *testing.B) {
	ctx := context.Background()
	desc := searchDesc()
	f := ocsigenserver.Flat{Pairs: mustParseQuery(b, smallQuery())}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Reconstruct(ctx, desc, f, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Reconstruct_Small_FromRawQuery(b *testing.B) {
	ctx := context.Background()
	desc := searchDesc()
	raw := smallQuery()
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pairs, err := ocsigenserver.ParseQuery(raw)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := ocsigenserver.Reconstruct(ctx, desc, ocsigenserver.Flat{Pairs: pairs}, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ReconstructWithMeta_Small(b *testing.B) {
	ctx := context.Background()
	desc := searchDesc()
	f := ocsigenserver.Flat{Pairs: mustParseQuery(b, smallQuery())}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.ReconstructWithMeta(ctx, desc, f, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Construct_Small(b *testing.B) {
	desc := searchDesc()
	q := "pelican"
	v := ocsigenserver.PairOf(2024, ocsigenserver.PairOf(&q, []string{"bird"}))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Construct(desc, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Construct_BuildURL_Small(b *testing.B) {
	desc := searchDesc()
	q := "pelican"
	v := ocsigenserver.PairOf(2024, ocsigenserver.PairOf(&q, []string{"bird"}))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := ocsigenserver.Construct(desc, v)
		if err != nil {
			b.Fatal(err)
		}
		_ = ocsigenserver.BuildURL("/search", f)
	}
}

func Benchmark_Fingerprint(b *testing.B) {
	desc := searchDesc()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ocsigenserver.FingerprintOf(desc)
	}
}

// ---- Macro benchmarks (repeated keys, long lists) ----

const (
	hugeTags  = 10000
	hugeItems = 5000
)

func Benchmark_Reconstruct_HugeSet(b *testing.B) {
	ctx := context.Background()
	desc := searchDesc()
	raw := generateHugeSetQuery(hugeTags)
	f := ocsigenserver.Flat{Pairs: mustParseQuery(b, raw)}
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Reconstruct(ctx, desc, f, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Reconstruct_HugeList(b *testing.B) {
	ctx := context.Background()
	desc := itemsDesc()
	f := ocsigenserver.Flat{Pairs: generateHugeListPairs(hugeItems)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Reconstruct(ctx, desc, f, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Construct_HugeList(b *testing.B) {
	desc := itemsDesc()
	v := generateHugeListValue(hugeItems)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Construct(desc, v); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Baseline: net/url ----

func Benchmark_netURL_ParseQuery_Small(b *testing.B) {
	raw := smallQuery()
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := url.ParseQuery(raw); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_netURL_ParseQuery_HugeSet(b *testing.B) {
	raw := generateHugeSetQuery(hugeTags)
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := url.ParseQuery(raw); err != nil {
			b.Fatal(err)
		}
	}
}
