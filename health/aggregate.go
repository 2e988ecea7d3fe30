package health

// Bucket is the counting bucket an entity lands in during aggregation.
// The fleet and service tier vocabularies collapse onto the same three
// buckets, so one aggregation pass covers both entity kinds.
type Bucket int

const (
	// BucketHealthy counts fully healthy entities.
	BucketHealthy Bucket = iota
	// BucketPartial counts partially healthy or warning entities.
	BucketPartial
	// BucketUnhealthy counts unhealthy, erroring, or offline entities.
	BucketUnhealthy
)

// BucketFunc maps an entity record onto its counting bucket. Aggregate is
// parameterized by this so callers can tally with either tier vocabulary.
type BucketFunc func(EntityRecord) Bucket

// BucketOf is the default BucketFunc. It dispatches on the record's kind:
// tenants use the three-tier entity classifier, services use the four-tier
// service classifier with warnings counted as partial and error/offline
// counted as unhealthy.
func BucketOf(r EntityRecord) Bucket {
	switch r.Kind {
	case KindService:
		switch r.ServiceStatus() {
		case ServiceHealthy:
			return BucketHealthy
		case ServiceWarning:
			return BucketPartial
		default:
			return BucketUnhealthy
		}
	default:
		switch r.Tier() {
		case TierHealthy:
			return BucketHealthy
		case TierPartial:
			return BucketPartial
		default:
			return BucketUnhealthy
		}
	}
}

// Counts is the fleet-wide tally of one aggregation pass.
type Counts struct {
	Healthy   int `json:"healthy"`
	Partial   int `json:"partial"`
	Unhealthy int `json:"unhealthy"`
	Total     int `json:"total"`

	// AverageResponseTimeMs is the arithmetic mean of probe latency over
	// the entities that reported one. Entities without a measured latency
	// are excluded from both numerator and denominator.
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
}

// Aggregate classifies every entity and tallies the fleet. A nil bucket
// function falls back to BucketOf. Aggregating zero entities yields
// all-zero counts, not an error.
func Aggregate(entities map[string]EntityRecord, bucket BucketFunc) Counts {
	if bucket == nil {
		bucket = BucketOf
	}

	var counts Counts
	var latencySum float64
	var latencyN int

	for _, record := range entities {
		counts.Total++
		switch bucket(record) {
		case BucketHealthy:
			counts.Healthy++
		case BucketPartial:
			counts.Partial++
		default:
			counts.Unhealthy++
		}

		if record.ResponseTimeMs != nil {
			latencySum += *record.ResponseTimeMs
			latencyN++
		}
	}

	if latencyN > 0 {
		counts.AverageResponseTimeMs = latencySum / float64(latencyN)
	}
	return counts
}
