// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package metrics collects in-process counters for the RPC facade's
// operations, in the same shape as the teacher's HTTP request/response
// collector, retargeted from (method, path) to (operation).
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the interface for metrics collection.
type Collector interface {
	RecordRequest(operation string)
	RecordResponse(operation string, duration time.Duration)
	RecordError(operation string, err error)
	GetStats() *Stats
	Reset()
}

// Stats is an aggregated snapshot of collected metrics.
type Stats struct {
	TotalRequests       int64
	ActiveRequests      int64
	RequestsByOperation map[string]int64

	TotalResponses         int64
	ResponseTimeStats      DurationStats
	ResponseTimeByOperation map[string]DurationStats

	TotalErrors      int64
	ErrorsByOperation map[string]int64

	StartTime time.Time
	Duration  time.Duration
}

// DurationStats summarizes observed durations.
type DurationStats struct {
	Count   int64
	Total   time.Duration
	Min     time.Duration
	Max     time.Duration
	Average time.Duration
}

// InMemoryCollector is an in-memory Collector implementation.
type InMemoryCollector struct {
	mu sync.RWMutex

	totalRequests  int64
	activeRequests int64
	requestsByOp   map[string]*int64

	totalResponses int64
	responseTimes  *durationAggregator
	responseByOp   map[string]*durationAggregator

	totalErrors int64
	errorsByOp  map[string]*int64

	startTime time.Time
}

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		requestsByOp:  make(map[string]*int64),
		responseTimes: newDurationAggregator(),
		responseByOp:  make(map[string]*durationAggregator),
		errorsByOp:    make(map[string]*int64),
		startTime:     time.Now(),
	}
}

func (c *InMemoryCollector) RecordRequest(operation string) {
	atomic.AddInt64(&c.totalRequests, 1)
	atomic.AddInt64(&c.activeRequests, 1)
	incrementCounter(&c.mu, c.requestsByOp, operation)
}

func (c *InMemoryCollector) RecordResponse(operation string, duration time.Duration) {
	atomic.AddInt64(&c.totalResponses, 1)
	atomic.AddInt64(&c.activeRequests, -1)
	c.responseTimes.add(duration)

	c.mu.Lock()
	agg, exists := c.responseByOp[operation]
	if !exists {
		agg = newDurationAggregator()
		c.responseByOp[operation] = agg
	}
	c.mu.Unlock()
	agg.add(duration)
}

func (c *InMemoryCollector) RecordError(operation string, err error) {
	atomic.AddInt64(&c.totalErrors, 1)
	atomic.AddInt64(&c.activeRequests, -1)
	incrementCounter(&c.mu, c.errorsByOp, operation)
}

func (c *InMemoryCollector) GetStats() *Stats {
	return &Stats{
		TotalRequests:           atomic.LoadInt64(&c.totalRequests),
		ActiveRequests:          atomic.LoadInt64(&c.activeRequests),
		TotalResponses:          atomic.LoadInt64(&c.totalResponses),
		TotalErrors:             atomic.LoadInt64(&c.totalErrors),
		RequestsByOperation:     c.copyCounters(c.requestsByOp),
		ErrorsByOperation:       c.copyCounters(c.errorsByOp),
		ResponseTimeStats:       c.responseTimes.stats(),
		ResponseTimeByOperation: c.copyDurationStats(c.responseByOp),
		StartTime:               c.startTime,
		Duration:                time.Since(c.startTime),
	}
}

func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.totalRequests, 0)
	atomic.StoreInt64(&c.activeRequests, 0)
	atomic.StoreInt64(&c.totalResponses, 0)
	atomic.StoreInt64(&c.totalErrors, 0)

	c.requestsByOp = make(map[string]*int64)
	c.responseTimes = newDurationAggregator()
	c.responseByOp = make(map[string]*durationAggregator)
	c.errorsByOp = make(map[string]*int64)
	c.startTime = time.Now()
}

func incrementCounter(mu *sync.RWMutex, m map[string]*int64, key string) {
	mu.Lock()
	counter, exists := m[key]
	if !exists {
		var v int64
		counter = &v
		m[key] = counter
	}
	mu.Unlock()
	atomic.AddInt64(counter, 1)
}

func (c *InMemoryCollector) copyCounters(m map[string]*int64) map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]int64, len(m))
	for k, v := range m {
		result[k] = atomic.LoadInt64(v)
	}
	return result
}

func (c *InMemoryCollector) copyDurationStats(m map[string]*durationAggregator) map[string]DurationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]DurationStats, len(m))
	for k, v := range m {
		result[k] = v.stats()
	}
	return result
}

type durationAggregator struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func newDurationAggregator() *durationAggregator {
	return &durationAggregator{min: time.Duration(1<<63 - 1)}
}

func (d *durationAggregator) add(duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count++
	d.total += duration
	if duration < d.min {
		d.min = duration
	}
	if duration > d.max {
		d.max = duration
	}
}

func (d *durationAggregator) stats() DurationStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := DurationStats{Count: d.count, Total: d.total, Min: d.min, Max: d.max}
	if d.count > 0 {
		s.Average = time.Duration(int64(d.total) / d.count)
	} else {
		s.Min = 0
	}
	return s
}

// NoOpCollector discards all metrics.
type NoOpCollector struct{}

func (NoOpCollector) RecordRequest(operation string)                    {}
func (NoOpCollector) RecordResponse(operation string, d time.Duration)  {}
func (NoOpCollector) RecordError(operation string, err error)           {}
func (NoOpCollector) GetStats() *Stats                                  { return &Stats{} }
func (NoOpCollector) Reset()                                            {}
