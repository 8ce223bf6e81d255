package reconciler

import (
	"time"
)

const (
	// DefaultCreateClusterTimeout is the request budget of CreateClusterInst,
	// far shorter than provisioning takes.
	DefaultCreateClusterTimeout = 30 * time.Second

	// DefaultPollInterval is the delay between ShowClusterInst polls.
	DefaultPollInterval = 10 * time.Second

	// DefaultReadyTimeout bounds the wait for a cluster, measured from the
	// create attempt.
	DefaultReadyTimeout = 30 * time.Minute
)

// Reconciler drives the App, its Cluster Instances and Application Instances
// toward the desired state. A Reconciler is used by one run at a time.
type Reconciler struct {
	invoker              Invoker
	progress             Progress
	metrics              *Metrics
	createClusterTimeout time.Duration
	pollInterval         time.Duration
	readyTimeout         time.Duration
	manageClusters       bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithProgress sets the observer of the cluster wait loop.
func WithProgress(p Progress) Option {
	return func(r *Reconciler) {
		if p != nil {
			r.progress = p
		}
	}
}

// WithCreateClusterTimeout sets the CreateClusterInst request budget.
func WithCreateClusterTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.createClusterTimeout = d
	}
}

// WithPollInterval sets the delay between readiness polls.
func WithPollInterval(d time.Duration) Option {
	return func(r *Reconciler) {
		r.pollInterval = d
	}
}

// WithReadyTimeout sets the wall-clock budget of the readiness wait.
func WithReadyTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.readyTimeout = d
	}
}

// WithClusterManagement controls whether Run makes sure each AppInst's
// cluster exists before reconciling the AppInst.
func WithClusterManagement(enabled bool) Option {
	return func(r *Reconciler) {
		r.manageClusters = enabled
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.metrics = m
		}
	}
}

// New creates a Reconciler calling the control plane through invoker.
func New(invoker Invoker, opts ...Option) *Reconciler {
	r := &Reconciler{
		invoker:              invoker,
		progress:             noopProgress{},
		metrics:              NewMetrics(),
		createClusterTimeout: DefaultCreateClusterTimeout,
		pollInterval:         DefaultPollInterval,
		readyTimeout:         DefaultReadyTimeout,
		manageClusters:       true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metrics returns the metrics recorded by this Reconciler.
func (r *Reconciler) Metrics() *Metrics {
	return r.metrics
}
