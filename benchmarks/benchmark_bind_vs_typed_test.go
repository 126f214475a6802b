package ocsigenserver_test

import (
	"context"
	"testing"

	ocsigenserver "github.com/huangered/ocsigenserver"
	u "github.com/huangered/ocsigenserver/examples/user"
	p "github.com/huangered/ocsigenserver/param"
)

// --- Fixtures for bound vs typed (examples/user) ---

func smallUserQuery() string { return "name=alice&email=a%40example.com&active=true" }

func typedUserDesc() ocsigenserver.Param[ocsigenserver.Pair[string, ocsigenserver.Pair[*string, bool]]] {
	return p.Prod3(
		p.String("name"),
		p.Opt(p.String("email")),
		p.Default(p.Bool("active"), true),
	)
}

// --- Bound (reflection, compiled once at init) ---

func Benchmark_Bound_User_Small_Flat(b *testing.B) {
	ctx := context.Background()
	f := ocsigenserver.Flat{Pairs: mustParseQuery(b, smallUserQuery())}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := u.Decode(ctx, f); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Bound_User_Small_RawQuery(b *testing.B) {
	ctx := context.Background()
	raw := smallUserQuery()
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pairs, err := ocsigenserver.ParseQuery(raw)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := u.Decode(ctx, ocsigenserver.Flat{Pairs: pairs}); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Typed (hand-written description) ---

func Benchmark_Typed_User_Small_Flat(b *testing.B) {
	ctx := context.Background()
	desc := typedUserDesc()
	f := ocsigenserver.Flat{Pairs: mustParseQuery(b, smallUserQuery())}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ocsigenserver.Reconstruct(ctx, desc, f, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Typed_User_Small_RawQuery(b *testing.B) {
	ctx := context.Background()
	desc := typedUserDesc()
	raw := smallUserQuery()
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
