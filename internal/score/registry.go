package score

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/curator/internal/model"
	"github.com/ppiankov/curator/internal/util"
)

//go:embed registry.yaml
var builtinRegistry []byte

// ErrMalformedRegistry wraps every registry validation failure
var ErrMalformedRegistry = errors.New("malformed ownership registry")

// Owner is a parent company and the domains it controls
type Owner struct {
	Key          string                 `yaml:"key" json:"key"`
	Name         string                 `yaml:"name" json:"name"`
	ClusterID    int                    `yaml:"cluster_id,omitempty" json:"cluster_id"`
	Independence model.IndependenceFlag `yaml:"independence,omitempty" json:"independence,omitempty"`
	Domains      []string               `yaml:"domains" json:"domains"`
}

// RegistryFile is the on-disk registry format
type RegistryFile struct {
	Owners     []Owner  `yaml:"owners"`
	StateMedia []string `yaml:"state_media"`
}

// snapshot is an immutable view of the registry. Readers never see a partial update.
type snapshot struct {
	owners     map[string]Owner  // key -> owner
	byDomain   map[string]string // domain -> owner key
	stateMedia map[string]bool
}

// Registry maps domains to parent companies. Reload swaps the whole snapshot atomically.
type Registry struct {
	current *atomic.Pointer[snapshot]
}

// NewRegistry validates the file contents and builds a registry
func NewRegistry(file RegistryFile) (*Registry, error) {
	snap, err := buildSnapshot(file)
	if err != nil {
		return nil, err
	}
	return &Registry{current: atomic.NewPointer(snap)}, nil
}

// LoadRegistry parses a YAML registry
func LoadRegistry(r io.Reader) (*Registry, error) {
	file, err := decodeRegistry(r)
	if err != nil {
		return nil, err
	}
	return NewRegistry(file)
}

// LoadRegistryFile parses a YAML registry from path
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadRegistry(f)
}

// DefaultRegistry returns the built-in registry
func DefaultRegistry() *Registry {
	reg, err := LoadRegistry(strings.NewReader(string(builtinRegistry)))
	if err != nil {
		panic(fmt.Sprintf("built-in registry: %v", err))
	}
	return reg
}

// Reload validates file and replaces the registry contents in one step.
// On error the current contents stay in place.
func (r *Registry) Reload(file RegistryFile) error {
	snap, err := buildSnapshot(file)
	if err != nil {
		return err
	}
	r.current.Store(snap)
	return nil
}

// Lookup finds the owner of host, walking up subdomains (abcnews.go.com, go.com).
func (r *Registry) Lookup(host string) (Owner, bool) {
	snap := r.current.Load()
	for _, candidate := range domainCandidates(host) {
		if key, ok := snap.byDomain[candidate]; ok {
			return snap.owners[key], true
		}
	}
	return Owner{}, false
}

// IsStateMedia reports whether host belongs to a listed state outlet
func (r *Registry) IsStateMedia(host string) bool {
	snap := r.current.Load()
	for _, candidate := range domainCandidates(host) {
		if snap.stateMedia[candidate] {
			return true
		}
	}
	return false
}

// Owners returns every owner sorted by key
func (r *Registry) Owners() []Owner {
	snap := r.current.Load()
	out := make([]Owner, 0, len(snap.owners))
	for _, o := range snap.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Len returns the number of registered domains
func (r *Registry) Len() int {
	return len(r.current.Load().byDomain)
}

func decodeRegistry(r io.Reader) (RegistryFile, error) {
	var file RegistryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return RegistryFile{}, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
	}
	return file, nil
}

func buildSnapshot(file RegistryFile) (*snapshot, error) {
	var result *multierror.Error
	snap := &snapshot{
		owners:     make(map[string]Owner, len(file.Owners)),
		byDomain:   make(map[string]string),
		stateMedia: make(map[string]bool, len(file.StateMedia)),
	}
	clusters := make(map[int]string)

	for i, o := range file.Owners {
		o.Key = strings.TrimSpace(o.Key)
		if o.Key == "" {
			result = multierror.Append(result, fmt.Errorf("owner %d: empty key", i))
			continue
		}
		if _, dup := snap.owners[o.Key]; dup {
			result = multierror.Append(result, fmt.Errorf("owner %q: duplicate key", o.Key))
			continue
		}
		if o.Name == "" {
			o.Name = o.Key
		}
		if len(o.Domains) == 0 {
			result = multierror.Append(result, fmt.Errorf("owner %q: no domains", o.Key))
		}
		switch o.Independence {
		case "", model.Independent, model.Corporate, model.StateFunded:
		default:
			result = multierror.Append(result, fmt.Errorf("owner %q: unknown independence %q", o.Key, o.Independence))
		}
		if o.ClusterID < 0 {
			result = multierror.Append(result, fmt.Errorf("owner %q: negative cluster_id", o.Key))
		}
		if o.ClusterID == 0 {
			o.ClusterID = derivedClusterID(o.Key)
		}
		if other, taken := clusters[o.ClusterID]; taken {
			result = multierror.Append(result, fmt.Errorf("owner %q: cluster_id %d already used by %q", o.Key, o.ClusterID, other))
		}
		clusters[o.ClusterID] = o.Key

		domains := make([]string, 0, len(o.Domains))
		for _, d := range o.Domains {
			d = normalizeDomain(d)
			if d == "" {
				continue
			}
			if prev, dup := snap.byDomain[d]; dup && prev != o.Key {
				result = multierror.Append(result, fmt.Errorf("domain %q owned by both %q and %q", d, prev, o.Key))
				continue
			}
			snap.byDomain[d] = o.Key
			domains = append(domains, d)
		}
		o.Domains = domains
		snap.owners[o.Key] = o
	}

	for _, d := range file.StateMedia {
		if d = normalizeDomain(d); d != "" {
			snap.stateMedia[d] = true
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRegistry, err)
	}
	return snap, nil
}

// derivedClusterID gives owners without an explicit id a stable positive id from their key
func derivedClusterID(key string) int {
	return int(xxhash.ChecksumString64(key)%(1<<31-1)) + 1
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, ".")
}

// domainCandidates lists host and each parent domain down to two labels
func domainCandidates(host string) []string {
	host = normalizeDomain(host)
	if host == "" || host == util.UnknownDomain {
		return nil
	}
	candidates := []string{host}
	for {
		i := strings.Index(host, ".")
		if i < 0 {
			break
		}
		host = host[i+1:]
		if !strings.Contains(host, ".") {
			break
		}
		candidates = append(candidates, host)
	}
	return candidates
}
