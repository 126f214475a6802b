package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	j "github.com/goccy/go-json"
	ocsigenserver "github.com/huangered/ocsigenserver"
	gen "github.com/huangered/ocsigenserver/internal/gen"
	ir "github.com/huangered/ocsigenserver/internal/ir"
	"github.com/huangered/ocsigenserver/svcdef"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "inspect":
		inspectCmd(os.Args[2:])
	case "gen":
		genCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "paramgen\n\nUsage:\n  paramgen inspect -in defs.yaml [-service name] [-strict] [-json]\n  paramgen gen -in defs.yaml -pkg pkgname -o out.go [-strict]\n\nNotes:\n  - inspect compiles YAML service definitions and prints their wire keys.\n  - gen renders the same definitions as typed Go declarations.")
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	var in, service string
	var strict, asJSON bool
	fs.StringVar(&in, "in", "", "YAML definition file")
	fs.StringVar(&service, "service", "", "inspect a single service by name")
	fs.BoolVar(&strict, "strict", false, "reject duplicate keys and unknown definition fields")
	fs.BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	_ = fs.Parse(args)
	if in == "" {
		fs.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		fatalf("reading %s: %v", in, err)
	}

	opts := svcdef.Options{Strict: strict}
	var cs []svcdef.Compiled
	var diag svcdef.Diag
	if service != "" {
		var c svcdef.Compiled
		c, diag, err = svcdef.ImportYAMLForService(data, service, opts)
		cs = []svcdef.Compiled{c}
	} else {
		cs, diag, err = svcdef.ImportYAML(data, opts)
	}
	if diag != nil {
		for _, w := range diag.Warnings() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	if err != nil {
		fatalf("%v", err)
	}

	rows := make([]inspectRow, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, newRow(c))
	}
	if asJSON {
		out, err := j.MarshalIndent(rows, "", "  ")
		if err != nil {
			fatalf("encode: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	for _, r := range rows {
		fmt.Printf("%s  %s %s  fingerprint=%s\n", r.Service, r.Method, r.Path, r.Fingerprint)
		for _, k := range r.Keys {
			fmt.Printf("  %-12s %s\n", k.Kind, k.Key)
		}
	}
}

type inspectKey struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
}

type inspectRow struct {
	Service     string       `json:"service"`
	Method      string       `json:"method"`
	Path        string       `json:"path"`
	Fingerprint string       `json:"fingerprint"`
	Keys        []inspectKey `json:"keys,omitempty"`
}

func newRow(c svcdef.Compiled) inspectRow {
	r := inspectRow{
		Service:     c.Service,
		Method:      c.Method,
		Path:        c.Path,
		Fingerprint: c.Fingerprint().String(),
	}
	c.Param.Names().Leaves("", func(key string, kind ocsigenserver.Kind) {
		r.Keys = append(r.Keys, inspectKey{Key: key, Kind: kind.String()})
	})
	return r
}

func genCmd(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var in, pkg, out string
	var strict bool
	fs.StringVar(&in, "in", "", "YAML definition file")
	fs.StringVar(&pkg, "pkg", "", "package name for the generated file")
	fs.StringVar(&out, "o", "", "output filename")
	fs.BoolVar(&strict, "strict", false, "reject duplicate keys and unknown definition fields")
	_ = fs.Parse(args)
	if in == "" || pkg == "" || out == "" {
		fs.Usage()
		os.Exit(2)
	}
	data, err := os.ReadFile(in)
	if err != nil {
		fatalf("reading %s: %v", in, err)
	}
	defs, err := svcdef.ParseYAML(data, svcdef.Options{Strict: strict})
	if err != nil {
		fatalf("%v", err)
	}

	svcs := make([]*ir.Service, 0, len(defs))
	seen := map[string]bool{}
	for _, def := range defs {
		svc, diag, err := svcdef.Normalize(def)
		for _, w := range diag.Warnings() {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		if err != nil {
			fatalf("%v", err)
		}
		if seen[svc.Name] {
			fatalf("service %q defined twice", svc.Name)
		}
		seen[svc.Name] = true
		svcs = append(svcs, svc)
	}

	code, err := gen.RenderFile(gen.File{Package: pkg, Services: svcs})
	if err != nil {
		fatalf("%v", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fatalf("creating output dir: %v", err)
	}
	if err := os.WriteFile(out, code, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
