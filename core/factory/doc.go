// Package factory provides a small generic registry used to build pluggable
// pieces (offer distributions, metrics sinks) from configuration. Each entry is
// selected by a type string and receives a map of raw settings which the
// factory decodes into a typed struct.
//
//	reg := factory.NewRegistry[model.Distribution]()
//	_ = reg.Register("uniform", func(map[string]any) (model.Distribution, error) {
//	    return model.Uniform{}, nil
//	})
//	d, err := reg.Create(factory.ModuleConfig{Type: "uniform"})
package factory
