package metrics

// Package metrics defines the events emitted by the solver, the reservation
// wage pipeline and sweeps, together with the sink interfaces that record
// them. Sinks are built from configuration through the factory registry;
// several configured sinks are combined into a MultiSink. Concrete sinks
// (Prometheus, InfluxDB, JSONL run log) live under infra.
