package dokploy

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Resource kinds shipped in the embedded catalog.
const (
	KindPostgres = "postgres"
	KindMySQL    = "mysql"
	KindRedis    = "redis"
	KindMongo    = "mongo"
	KindCompose  = "compose"
)

// Action is a lifecycle verb supported by catalog resources.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Resource describes a Dokploy service that is started and stopped by id.
type Resource struct {
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name" yaml:"name"`
	Database bool   `json:"database" yaml:"database"`
	IDKey    string `json:"id_key" yaml:"id_key"`
	Start    string `json:"start" yaml:"start"`
	Stop     string `json:"stop" yaml:"stop"`
}

// Endpoint returns the endpoint for action, or "" when the action is unknown.
func (r Resource) Endpoint(action Action) string {
	switch action {
	case ActionStart:
		return r.Start
	case ActionStop:
		return r.Stop
	default:
		return ""
	}
}

// Payload wraps id in the tRPC input envelope, e.g. {"json":{"postgresId":"..."}}.
func (r Resource) Payload(id string) TRPCInput {
	return trpcInput(r.IDKey, id)
}

type catalogFile struct {
	Resources []Resource `json:"resources" yaml:"resources"`
}

// Catalog is an ordered, read-only set of resources indexed by kind.
type Catalog struct {
	resources []Resource
	idx       map[string]Resource
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return parseCatalog(embeddedCatalog, ".yaml")
}

// LoadCatalog reads a YAML or JSON catalog from path. An empty path yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultCatalog()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseCatalog(raw, filepath.Ext(path))
}

func parseCatalog(data []byte, ext string) (*Catalog, error) {
	file, err := decodeCatalog(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Resources) == 0 {
		return nil, errors.New("catalog contains no resources entries")
	}

	c := &Catalog{
		resources: make([]Resource, 0, len(file.Resources)),
		idx:       make(map[string]Resource, len(file.Resources)),
	}
	for i := range file.Resources {
		res := sanitizeResource(file.Resources[i])
		if err := validateResource(res); err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		if _, exists := c.idx[res.Kind]; exists {
			return nil, fmt.Errorf("duplicate resource kind %q", res.Kind)
		}
		c.resources = append(c.resources, res)
		c.idx[res.Kind] = res
	}
	return c, nil
}

func decodeCatalog(data []byte, ext string) (catalogFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file catalogFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}
	return catalogFile{}, errors.New("catalog format not recognized (expected YAML or JSON)")
}

func sanitizeResource(r Resource) Resource {
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.Name = strings.TrimSpace(r.Name)
	r.IDKey = strings.TrimSpace(r.IDKey)
	r.Start = strings.TrimLeft(strings.TrimSpace(r.Start), "/")
	r.Stop = strings.TrimLeft(strings.TrimSpace(r.Stop), "/")
	if r.Name == "" {
		r.Name = r.Kind
	}
	return r
}

func validateResource(r Resource) error {
	if r.Kind == "" {
		return errors.New("kind is required")
	}
	if r.IDKey == "" {
		return fmt.Errorf("id_key is required for resource %q", r.Kind)
	}
	if r.Start == "" {
		return fmt.Errorf("start endpoint is required for resource %q", r.Kind)
	}
	if r.Stop == "" {
		return fmt.Errorf("stop endpoint is required for resource %q", r.Kind)
	}
	return nil
}

// ByKind returns the resource registered for kind.
func (c *Catalog) ByKind(kind string) (Resource, bool) {
	if c == nil {
		return Resource{}, false
	}
	r, ok := c.idx[strings.ToLower(strings.TrimSpace(kind))]
	return r, ok
}

// All returns every resource in declaration order.
func (c *Catalog) All() []Resource {
	if c == nil {
		return nil
	}
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Databases returns the database resources in declaration order.
func (c *Catalog) Databases() []Resource {
	if c == nil {
		return nil
	}
	out := make([]Resource, 0, len(c.resources))
	for _, r := range c.resources {
		if r.Database {
			out = append(out, r)
		}
	}
	return out
}
