// Package metric publishes rendering counters of graph drivers with expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dudk/flo/signal"
)

const componentsLabel = "flo.components"

const (
	// ChunkCounter measures number of rendered chunks.
	ChunkCounter = "Chunks"
	// SampleCounter measures number of rendered samples.
	SampleCounter = "Samples"
	// LatencyCounter measures time between two rendered chunks.
	LatencyCounter = "Latency"
	// DurationCounter counts the duration of rendered signal.
	DurationCounter = "Duration"
	// FailureCounter counts chunks replaced with silence.
	FailureCounter = "Failures"
	// ComponentCounter counts number of metered instances.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		ChunkCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		FailureCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// Meter captures counters of a single rendering component. Counters are
// shared by all components of the same type.
type Meter struct {
	metric
	sampleRate int
	calledAt   time.Time
	chunkSize  int64
	chunkTime  time.Duration
}

// NewMeter registers a new instance of component type.
func NewMeter(component interface{}, sampleRate int) *Meter {
	m := &Meter{
		metric:     components.get(getType(component)),
		sampleRate: sampleRate,
	}
	m.components.Add(1)
	return m
}

// Start postpones latency capture until rendering is actually started.
func (m *Meter) Start() {
	m.calledAt = time.Now()
}

// Chunk captures metrics when a chunk of size samples is rendered.
func (m *Meter) Chunk(size int64) {
	m.latency.set(time.Since(m.calledAt))
	m.chunks.Add(1)
	m.samples.Add(size)
	// recalculate chunk duration only when size has changed
	if m.chunkSize != size {
		m.chunkSize = size
		m.chunkTime = signal.DurationOf(m.sampleRate, size)
	}
	m.duration.add(m.chunkTime)
	m.calledAt = time.Now()
}

// Failure counts a chunk which couldn't be rendered.
func (m *Meter) Failure() {
	m.failures.Add(1)
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		// return existing metric if available
		return metric
	}
	// create new metric
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	key        string
	components *expvar.Int
	chunks     *expvar.Int
	samples    *expvar.Int
	failures   *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		key:        componentType,
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		chunks:     expvar.NewInt(key(componentType, ChunkCounter)),
		samples:    expvar.NewInt(key(componentType, SampleCounter)),
		failures:   expvar.NewInt(key(componentType, FailureCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%v", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
