// Package plugins links the built-in metrics sinks into the binary. Each
// imported package registers its sinks with core/metrics from init, making
// them selectable by type name under metrics.sinks.
package plugins

import (
	// prometheus, influx
	_ "github.com/kilianp07/mccall/infra/metrics"
	// jsonl
	_ "github.com/kilianp07/mccall/infra/runlog"
)
