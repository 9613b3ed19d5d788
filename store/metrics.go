package store

// Metrics exposes store-level observability hooks.
// A NoopMetrics implementation is used by default.
type Metrics interface {
	Hit()
	Miss()
	// Expired reports how many entries one expiration pass released.
	Expired(n int)
	// Size reports resident entries and how many of them carry a deadline.
	Size(entries, expiring int)
	// Grow reports a growth attempt: the bucket count afterwards and whether
	// the new array could be allocated.
	Grow(buckets int, ok bool)
	// Buckets reports the bucket array length, once at construction and
	// again after every doubling.
	Buckets(n int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()                       {}
func (NoopMetrics) Miss()                      {}
func (NoopMetrics) Expired(int)                {}
func (NoopMetrics) Size(entries, expiring int) {}
func (NoopMetrics) Grow(buckets int, ok bool)  {}
func (NoopMetrics) Buckets(n int)              {}

var _ Metrics = NoopMetrics{}
