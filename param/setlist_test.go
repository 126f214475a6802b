package param_test

import (
	"context"
	"testing"

	ocsigenserver "github.com/huangered/ocsigenserver"
	p "github.com/huangered/ocsigenserver/param"
)

func TestSet_RepeatsOneKey(t *testing.T) {
	s := p.Set(p.Int("i"))
	ctx := context.Background()

	flat, err := ocsigenserver.Construct(s, []int{4, 22, 111})
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	want := []ocsigenserver.KV{{Key: "i", Value: "4"}, {Key: "i", Value: "22"}, {Key: "i", Value: "111"}}
	if len(flat.Pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %v", flat.Pairs)
	}
	for j, kv := range want {
		if flat.Pairs[j] != kv {
			t.Fatalf("pair %d: expected %v, got %v", j, kv, flat.Pairs[j])
		}
	}

	v, err := ocsigenserver.Reconstruct(ctx, s, flat, nil)
	if err != nil || len(v) != 3 || v[0] != 4 || v[1] != 22 || v[2] != 111 {
		t.Fatalf("decode: v=%v err=%v", v, err)
	}
}

func TestSet_EmptyIsLegal(t *testing.T) {
	s := p.Set(p.Int("i"))
	v, err := ocsigenserver.Reconstruct(context.Background(), s, ocsigenserver.Flat{}, nil)
	if err != nil {
		t.Fatalf("empty set: %v", err)
	}
	if v == nil || len(v) != 0 {
		t.Fatalf("expected empty slice, got %v", v)
	}
}

func TestSet_MalformedElement(t *testing.T) {
	s := p.Set(p.Int("i"))
	flat := ocsigenserver.Flat{Pairs: []ocsigenserver.KV{
		{Key: "i", Value: "1"},
		{Key: "i", Value: "x"},
	}}
	_, err := ocsigenserver.Reconstruct(context.Background(), s, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeInvalidValue || it.Name != "i" {
		t.Fatalf("expected invalid_value at i, got %+v", it)
	}
}

func TestSet_RejectsCompositeElements(t *testing.T) {
	expectShapePanic(t, func() {
		p.Set(p.Prod(p.Int("a"), p.Int("b")))
	})
}

func TestSet_FilesCollectsEveryUpload(t *testing.T) {
	s := p.Set(p.File("att"))
	files := ocsigenserver.Files{"att": {
		{FieldName: "att", Filename: "a.png"},
		{FieldName: "att", Filename: "b.png"},
	}}
	v, err := ocsigenserver.Reconstruct(context.Background(), s, ocsigenserver.Flat{}, files)
	if err != nil || len(v) != 2 || v[1].Filename != "b.png" {
		t.Fatalf("decode: v=%v err=%v", v, err)
	}
}

func TestList_IndexedPrefixes(t *testing.T) {
	l := p.List("l", p.Prod(p.Int("a"), p.String("b")))
	ctx := context.Background()

	vs := []ocsigenserver.Pair[int, string]{{First: 1, Second: "x"}, {First: 2, Second: "y"}}
	flat, err := ocsigenserver.Construct(l, vs)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	want := []ocsigenserver.KV{
		{Key: "l.0.a", Value: "1"},
		{Key: "l.0.b", Value: "x"},
		{Key: "l.1.a", Value: "2"},
		{Key: "l.1.b", Value: "y"},
	}
	if len(flat.Pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %v", len(want), flat.Pairs)
	}
	for i, kv := range want {
		if flat.Pairs[i] != kv {
			t.Fatalf("pair %d: expected %v, got %v", i, kv, flat.Pairs[i])
		}
	}

	back, err := ocsigenserver.Reconstruct(ctx, l, flat, nil)
	if err != nil || len(back) != 2 || back[0] != vs[0] || back[1] != vs[1] {
		t.Fatalf("decode: v=%v err=%v", back, err)
	}
}

func TestList_ErrorNamesFullKey(t *testing.T) {
	l := p.List("items", p.Prod(p.Int("qty"), p.String("name")))
	flat := ocsigenserver.Flat{Pairs: []ocsigenserver.KV{
		{Key: "items.0.qty", Value: "2"},
		{Key: "items.0.name", Value: "apple"},
		{Key: "items.1.qty", Value: "oops"},
		{Key: "items.1.name", Value: "pear"},
	}}
	_, err := ocsigenserver.Reconstruct(context.Background(), l, flat, nil)
	if it := codeAt(t, err, 0); it.Code != ocsigenserver.CodeInvalidValue || it.Name != "items.1.qty" {
		t.Fatalf("expected invalid_value at items.1.qty, got %+v", it)
	}
}

func TestList_IndicesDecodeAscendingEvenWhenSparse(t *testing.T) {
	l := p.List("l", p.Int("a"))
	flat := ocsigenserver.Flat{Pairs: []ocsigenserver.KV{
		{Key: "l.2.a", Value: "222"},
		{Key: "l.0.a", Value: "0"},
	}}
	v, err := ocsigenserver.Reconstruct(context.Background(), l, flat, nil)
	if err != nil || len(v) != 2 || v[0] != 0 || v[1] != 222 {
		t.Fatalf("decode: v=%v err=%v", v, err)
	}
}

func TestList_EmptyIsLegal(t *testing.T) {
	l := p.List("l", p.Int("a"))
	v, err := ocsigenserver.Reconstruct(context.Background(), l, ocsigenserver.Flat{}, nil)
	if err != nil || len(v) != 0 {
		t.Fatalf("expected empty list, got v=%v err=%v", v, err)
	}
}

func TestList_Nested(t *testing.T) {
	l := p.List("outer", p.List("inner", p.Int("v")))
	ctx := context.Background()

	vs := [][]int{{1, 2}, {3}}
	flat, err := ocsigenserver.Construct(l, vs)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	want := []ocsigenserver.KV{
		{Key: "outer.0.inner.0.v", Value: "1"},
		{Key: "outer.0.inner.1.v", Value: "2"},
		{Key: "outer.1.inner.0.v", Value: "3"},
	}
	for i, kv := range want {
		if flat.Pairs[i] != kv {
			t.Fatalf("pair %d: expected %v, got %v", i, kv, flat.Pairs[i])
		}
	}

	back, err := ocsigenserver.Reconstruct(ctx, l, flat, nil)
	if err != nil || len(back) != 2 || len(back[0]) != 2 || back[0][1] != 2 || back[1][0] != 3 {
		t.Fatalf("decode: v=%v err=%v", back, err)
	}
}

func TestList_SumElementsShareDiscriminatorName(t *testing.T) {
	l := p.List("l", p.Sum(p.Int("n"), p.String("s")))
	ctx := context.Background()

	vs := []ocsigenserver.Either[int, string]{
		ocsigenserver.EitherFirst[int, string](5),
		ocsigenserver.EitherSecond[int, string]("hi"),
	}
	flat, err := ocsigenserver.Construct(l, vs)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if flat.Pairs[0].Key != "l.0.__sum0" || flat.Pairs[2].Key != "l.1.__sum0" {
		t.Fatalf("discriminators must resolve under the element prefix, got %v", flat.Pairs)
	}

	back, err := ocsigenserver.Reconstruct(ctx, l, flat, nil)
	if err != nil || len(back) != 2 || back[0].First != 5 || back[1].Second != "hi" {
		t.Fatalf("decode: v=%v err=%v", back, err)
	}
}
