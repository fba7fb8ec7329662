package cluster

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry is the authoritative name -> descriptor mapping. It is
// populated once at construction and read-only afterwards, so lookups
// are safe from concurrent goroutines.
type Registry struct {
	clusters map[string]Cluster
}

func NewRegistry(clusters ...Cluster) (*Registry, error) {
	r := &Registry{clusters: make(map[string]Cluster, len(clusters))}
	for _, c := range clusters {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.clusters[c.Name]; exists {
			return nil, fmt.Errorf("duplicate cluster: %s", c.Name)
		}
		r.clusters[c.Name] = c
	}
	return r, nil
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.clusters[name]
	return ok
}

// Get returns the descriptor for name. The second return reports
// whether the cluster is known.
func (r *Registry) Get(name string) (Cluster, bool) {
	c, ok := r.clusters[name]
	return c, ok
}

func (r *Registry) Len() int {
	return len(r.clusters)
}

// Names returns all registered cluster names in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.clusters)
	slices.Sort(names)
	return names
}

// All returns the descriptors in name order.
func (r *Registry) All() []Cluster {
	out := make([]Cluster, 0, len(r.clusters))
	for _, name := range r.Names() {
		out = append(out, r.clusters[name])
	}
	return out
}
