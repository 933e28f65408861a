package routes

import (
	"net/http"

	"github.com/JaimeStill/lumen/pkg/openapi"
)

// Mux is the registration surface shared by http.ServeMux and web.Router.
type Mux interface {
	HandleFunc(pattern string, handler func(http.ResponseWriter, *http.Request))
}

// Group organizes routes under a common prefix. Tags and Schemas feed the
// generated OpenAPI document; Tags apply to every documented route in the group.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Schemas     map[string]*openapi.Schema
	Routes      []Route
	Children    []Group
}

// Patterns lists the fully prefixed patterns the group registers, in order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(prefix string, r Route) {
		out = append(out, r.pattern(prefix))
	})
	return out
}

// Register adds all routes from the given groups to mux.
func Register(mux Mux, groups ...Group) {
	for _, group := range groups {
		group.walk("", func(prefix string, r Route) {
			mux.HandleFunc(r.pattern(prefix), r.Handler)
		})
	}
}

// Document adds the documented routes and schemas of groups to spec.
func Document(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		group.document(spec, "", nil)
	}
}

func (g Group) document(spec *openapi.Spec, parent string, tags []string) {
	prefix := parent + g.Prefix
	if len(g.Tags) > 0 {
		tags = g.Tags
		for _, tag := range g.Tags {
			spec.AddTag(tag, g.Description)
		}
	}
	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}

	for _, r := range g.Routes {
		if r.OpenAPI == nil || r.Method == "" {
			continue
		}
		op := *r.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}
		spec.AddOperation(r.Method, specPath(prefix+r.Pattern), &op)
	}

	for _, child := range g.Children {
		child.document(spec, prefix, tags)
	}
}

func (g Group) walk(parent string, visit func(prefix string, r Route)) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		visit(prefix, r)
	}
	for _, child := range g.Children {
		child.walk(prefix, visit)
	}
}
