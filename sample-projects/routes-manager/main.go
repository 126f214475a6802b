package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	ocsigenserver "github.com/huangered/ocsigenserver"
	p "github.com/huangered/ocsigenserver/param"
	"github.com/huangered/ocsigenserver/service"
	"github.com/huangered/ocsigenserver/svcdef"
)

// RoutesManager loads service definitions from a YAML file and turns them
// into a servable table.
type RoutesManager struct {
	file   string
	strict bool
}

func NewRoutesManager(file string, strict bool) *RoutesManager {
	return &RoutesManager{file: file, strict: strict}
}

func (rm *RoutesManager) load() ([]svcdef.Compiled, error) {
	data, err := os.ReadFile(rm.file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", rm.file, err)
	}

	compiled, diag, err := svcdef.ImportYAML(data, svcdef.Options{Strict: rm.strict})
	for _, w := range diag.Warnings() {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
	}
	if err != nil {
		return nil, err
	}
	return compiled, nil
}

func (rm *RoutesManager) Validate() error {
	compiled, err := rm.load()
	if err != nil {
		return err
	}

	for _, c := range compiled {
		fmt.Printf("  %-14s %-6s %-20s fingerprint=%s\n", c.Service, c.Method, c.Path, c.Fingerprint())
	}

	fmt.Printf("✅ %d service definitions in '%s' are valid!\n", len(compiled), rm.file)
	return nil
}

func (rm *RoutesManager) Show(name string) error {
	compiled, err := rm.load()
	if err != nil {
		return err
	}

	found := false
	for _, c := range compiled {
		if name != "" && c.Service != name {
			continue
		}
		found = true

		fmt.Printf("📋 %s  %s %s\n", c.Service, c.Method, c.Path)
		c.Param.Names().Leaves("", func(key string, kind ocsigenserver.Kind) {
			fmt.Printf("    %-20s %s\n", key, kind)
		})
	}
	if name != "" && !found {
		return fmt.Errorf("service %q not found in %s", name, rm.file)
	}
	return nil
}

const routesTemplate = `# Service route definitions
service: listing
path: /posts
params:
  - name: page
    type: int
    default: "1"
  - name: q
    type: string
    optional: true
  - name: tags
    type: string
    repeated: true
---
service: post
path: /posts
suffix:
  - name: year
    type: int
  - name: slug
    type: regexp
    pattern: "[a-z0-9-]+"
params:
  - name: lang
    type: string
    default: "en"
---
service: upload
path: /upload
method: post
params:
  - name: avatar
    type: file
  - name: caption
    type: string
    optional: true
  - name: draft
    type: checkbox
`

func (rm *RoutesManager) GenerateTemplate() error {
	if err := os.WriteFile(rm.file, []byte(routesTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rm.file, err)
	}
	fmt.Printf("📝 Generated %s\n", rm.file)

	fmt.Println("✅ Template route definitions generated!")
	fmt.Println("\n📖 Next steps:")
	fmt.Println("1. Edit the route definitions as needed")
	fmt.Println("2. Validate with: go run . validate")
	fmt.Println("3. Serve with: go run . serve --addr=:8080")

	return nil
}

func (rm *RoutesManager) Serve(addr string) error {
	compiled, err := rm.load()
	if err != nil {
		return err
	}

	table := service.NewTable()
	for _, c := range compiled {
		svc, err := buildService(c)
		if err != nil {
			return err
		}
		if err := table.Register(svc); err != nil {
			return err
		}
	}

	log.Printf("🚀 Serving %d services from %s on %s", len(compiled), rm.file, addr)
	return http.ListenAndServe(addr, table)
}

// buildService registers the compiled description on the channel its method
// implies: GET definitions describe the query, everything else the body.
func buildService(c svcdef.Compiled) (*service.Service, error) {
	h := echoHandler(c)
	if c.Method == "GET" {
		return service.New(c.Service, c.Path, c.Param, h)
	}
	return service.NewPost(c.Service, c.Path, ocsigenserver.AnyOf(p.Unit()), c.Param, h)
}

// echoHandler answers every request with the decoded values, so a served
// definition file can be poked at with curl.
func echoHandler(c svcdef.Compiled) service.Handler {
	return func(_ context.Context, get, post any) (any, error) {
		out := map[string]any{
			"service": c.Service,
			"query":   describeValues(get),
		}
		if post != nil {
			out["body"] = describeValues(post)
		}
		return out, nil
	}
}

// describeValues replaces file handles with their metadata; everything else
// a decode produces is JSON-encodable as is.
func describeValues(v any) any {
	switch t := v.(type) {
	case ocsigenserver.FileInfo:
		return map[string]any{
			"filename":     t.Filename,
			"size":         t.Size,
			"content_type": t.ContentType,
		}
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = describeValues(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = describeValues(val)
		}
		return out
	}
	return v
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	rm := NewRoutesManager(getStringFlag("--file", "routes.yaml"), getBoolFlag("--strict"))
	command := os.Args[1]

	switch command {
	case "validate":
		if err := rm.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Validation failed: %v\n", err)
			os.Exit(1)
		}

	case "show":
		if err := rm.Show(getStringFlag("--service", "")); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Show failed: %v\n", err)
			os.Exit(1)
		}

	case "generate":
		if getBoolFlag("--template") {
			if err := rm.GenerateTemplate(); err != nil {
				fmt.Fprintf(os.Stderr, "❌ Generate failed: %v\n", err)
				os.Exit(1)
			}
		} else {
			fmt.Fprintf(os.Stderr, "❌ Use --template flag to generate a template file\n")
			os.Exit(1)
		}

	case "serve":
		if err := rm.Serve(getStringFlag("--addr", ":8080")); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Serve failed: %v\n", err)
			os.Exit(1)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`🎯 ocsigenserver Routes Manager Sample

Usage: %s <command> [flags...]

Commands:
  validate [--file=<f>] [--strict]            Compile route definitions and report fingerprints
  show [--file=<f>] [--service=<name>]        Show the wire keys of each service
  generate --template [--file=<f>]            Generate a template definition file
  serve [--file=<f>] [--addr=<addr>]          Serve the definitions with echo handlers

Flags:
  --file=<path>            Definition file (default: routes.yaml)
  --service=<name>         Restrict show to one service
  --strict                 Duplicate YAML keys and unknown fields become errors
  --addr=<addr>            Listen address (default: :8080)
  --template               Generate a template file

Examples:
  %s generate --template
  %s validate --strict
  %s show --service=listing
  %s serve --addr=:8080

`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func getStringFlag(flag, fallback string) string {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, flag+"=") {
			return strings.TrimPrefix(arg, flag+"=")
		}
	}
	return fallback
}

func getBoolFlag(flag string) bool {
	for _, arg := range os.Args {
		if arg == flag {
			return true
		}
	}
	return false
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
