package reconciler

import (
	"sort"
	"sync"
	"time"

	"edgedeploy/pkg/logging"
)

// Metrics tracks what a run did per resource type, for the end-of-run
// summary.
type Metrics struct {
	mu sync.RWMutex

	resourceMetrics map[ResourceType]*resourceTypeMetrics

	// Cluster wait loop totals.
	waits      int64
	waitPolls  int64
	waitedTime time.Duration
}

type resourceTypeMetrics struct {
	Attempts        int64
	Creates         int64
	Updates         int64
	Failures        int64
	PartialFailures int64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		resourceMetrics: make(map[ResourceType]*resourceTypeMetrics),
	}
}

// getOrCreate must be called with mu held.
func (m *Metrics) getOrCreate(resourceType ResourceType) *resourceTypeMetrics {
	if metrics, exists := m.resourceMetrics[resourceType]; exists {
		return metrics
	}
	metrics := &resourceTypeMetrics{}
	m.resourceMetrics[resourceType] = metrics
	return metrics
}

// RecordAttempt records the start of a reconcile.
func (m *Metrics) RecordAttempt(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreate(resourceType).Attempts++
}

// RecordCreate records a resource created.
func (m *Metrics) RecordCreate(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreate(resourceType).Creates++
}

// RecordUpdate records a resource updated or refreshed.
func (m *Metrics) RecordUpdate(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreate(resourceType).Updates++
}

// RecordFailure records a fatal reconcile failure.
func (m *Metrics) RecordFailure(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics := m.getOrCreate(resourceType)
	metrics.Failures++

	logging.Debug("ReconcilerMetrics", "Reconcile failure for %s (failures: %d)", resourceType, metrics.Failures)
}

// RecordPartialFailure records a batch that reported failed items.
func (m *Metrics) RecordPartialFailure(resourceType ResourceType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreate(resourceType).PartialFailures++
}

// RecordWait records one run of the cluster wait loop.
func (m *Metrics) RecordWait(polls int, waited time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waits++
	m.waitPolls += int64(polls)
	m.waitedTime += waited
}

// ResourceTypeMetricView is a read-only view of resource-type-specific metrics.
type ResourceTypeMetricView struct {
	ResourceType    ResourceType `json:"resource_type"`
	Attempts        int64        `json:"attempts"`
	Creates         int64        `json:"creates"`
	Updates         int64        `json:"updates"`
	Failures        int64        `json:"failures"`
	PartialFailures int64        `json:"partial_failures"`
}

// MetricsSummary provides a summary of a run's metrics.
type MetricsSummary struct {
	PerResourceType []ResourceTypeMetricView `json:"per_resource_type"`
	Waits           int64                    `json:"waits"`
	WaitPolls       int64                    `json:"wait_polls"`
	WaitedTime      time.Duration            `json:"waited_time"`
}

var resourceOrder = map[ResourceType]int{
	ResourceTypeApp:         0,
	ResourceTypeClusterInst: 1,
	ResourceTypeAppInst:     2,
}

// Summary returns a snapshot of the metrics, resource types in dependency
// order.
func (m *Metrics) Summary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := MetricsSummary{
		Waits:      m.waits,
		WaitPolls:  m.waitPolls,
		WaitedTime: m.waitedTime,
	}
	for rt, metrics := range m.resourceMetrics {
		summary.PerResourceType = append(summary.PerResourceType, ResourceTypeMetricView{
			ResourceType:    rt,
			Attempts:        metrics.Attempts,
			Creates:         metrics.Creates,
			Updates:         metrics.Updates,
			Failures:        metrics.Failures,
			PartialFailures: metrics.PartialFailures,
		})
	}
	sort.Slice(summary.PerResourceType, func(i, j int) bool {
		return resourceOrder[summary.PerResourceType[i].ResourceType] < resourceOrder[summary.PerResourceType[j].ResourceType]
	})
	return summary
}
