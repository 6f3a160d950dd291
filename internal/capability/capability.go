// Package capability holds the named operations the advisory engine may call
// while producing a recommendation: the two DynamoDB lookups and the generic
// HTTP fetch used for the weather forecast. Each capability declares its tool
// contract (name, description, input schema) for the engine's tool
// configuration, and executes when the model asks for it.
package capability

import (
	"context"
	"fmt"

	"plant-advisor/internal/common/metrics"
)

// Capability is a single operation the engine can invoke by name.
type Capability interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Call(ctx context.Context, input map[string]interface{}) (map[string]interface{}, error)
}

// Registry is the capability set declared to the engine for one deployment.
// It is assembled once at bootstrap and read-only afterwards.
type Registry struct {
	byName map[string]Capability
	order  []Capability
}

func NewRegistry(caps ...Capability) *Registry {
	r := &Registry{byName: make(map[string]Capability, len(caps))}
	for _, c := range caps {
		if _, exists := r.byName[c.Name()]; exists {
			continue
		}
		r.byName[c.Name()] = c
		r.order = append(r.order, c)
	}
	return r
}

// All returns the capabilities in registration order.
func (r *Registry) All() []Capability {
	return r.order
}

// Call executes the named capability. The outcome is counted either way;
// the error text travels back toward the classifier untouched.
func (r *Registry) Call(ctx context.Context, name string, input map[string]interface{}) (map[string]interface{}, error) {
	c, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown capability %q requested by advisory engine", name)
	}

	out, err := c.Call(ctx, input)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	metrics.CapabilityCalls.WithLabelValues(name, outcome).Inc()
	return out, err
}
