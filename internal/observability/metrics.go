package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	requestLatency  map[string]time.Duration
	errorCount      map[string]int64
	actionCount     map[string]int64
	ticketCount     map[string]int64
	collaboratorErr map[string]int64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests      map[string]int64 `json:"requests"`
	Errors        map[string]int64 `json:"errors"`
	Actions       map[string]int64 `json:"actions"`
	Tickets       map[string]int64 `json:"tickets"`
	Collaborators map[string]int64 `json:"collaborator_failures"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		requestLatency:  make(map[string]time.Duration),
		errorCount:      make(map[string]int64),
		actionCount:     make(map[string]int64),
		ticketCount:     make(map[string]int64),
		collaboratorErr: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestLatency[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAction counts routing outcomes per turn.
func (m *Metrics) RecordAction(action string) {
	m.inc(func() map[string]int64 { return m.actionCount }, action)
}

// RecordTicket counts created tickets by source.
func (m *Metrics) RecordTicket(source string) {
	m.inc(func() map[string]int64 { return m.ticketCount }, source)
}

// RecordCollaboratorFailure counts recovered failures of an external dependency.
func (m *Metrics) RecordCollaboratorFailure(name string) {
	m.inc(func() map[string]int64 { return m.collaboratorErr }, name)
}

func (m *Metrics) inc(bucket func() map[string]int64, key string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket()[key]++
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Requests:      copyCounts(m.requestCount),
		Errors:        copyCounts(m.errorCount),
		Actions:       copyCounts(m.actionCount),
		Tickets:       copyCounts(m.ticketCount),
		Collaborators: copyCounts(m.collaboratorErr),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
