package metrics

import "github.com/kilianp07/mccall/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// ServeAddr is the listen address of the Prometheus endpoint. Empty
	// disables it.
	ServeAddr string `json:"serve_addr" yaml:"serve_addr"`
}
