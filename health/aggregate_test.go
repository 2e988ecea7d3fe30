package health

import (
	"math"
	"testing"
)

func ms(v float64) *float64 { return &v }

func TestAggregate_Empty(t *testing.T) {
	counts := Aggregate(map[string]EntityRecord{}, nil)

	if counts.Healthy != 0 || counts.Partial != 0 || counts.Unhealthy != 0 || counts.Total != 0 {
		t.Errorf("Aggregate(empty) = %+v, want all zero", counts)
	}
	if counts.AverageResponseTimeMs != 0 {
		t.Errorf("Aggregate(empty) average = %v, want 0", counts.AverageResponseTimeMs)
	}
}

func TestAggregate_Nil(t *testing.T) {
	counts := Aggregate(nil, nil)
	if counts.Total != 0 {
		t.Errorf("Aggregate(nil) total = %d, want 0", counts.Total)
	}
}

func TestAggregate_ThreeTenantScenario(t *testing.T) {
	entities := map[string]EntityRecord{
		"acme": {ID: "acme", Kind: KindTenant, Available: true,
			Checks: map[string]bool{"a": true, "b": true}},
		"globex": {ID: "globex", Kind: KindTenant, Available: true,
			Checks: map[string]bool{"a": true, "b": false}},
		"initech": {ID: "initech", Kind: KindTenant, Available: true,
			Checks: map[string]bool{"a": false, "b": false}},
	}

	counts := Aggregate(entities, nil)

	if counts.Healthy != 1 || counts.Partial != 1 || counts.Unhealthy != 1 || counts.Total != 3 {
		t.Errorf("counts = %+v, want {1,1,1,3}", counts)
	}
}

func TestAggregate_TotalMatchesEntityCount(t *testing.T) {
	entities := make(map[string]EntityRecord)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		entities[id] = EntityRecord{ID: id, Available: true}
	}

	counts := Aggregate(entities, nil)

	sum := counts.Healthy + counts.Partial + counts.Unhealthy
	if sum != counts.Total || counts.Total != len(entities) {
		t.Errorf("bucket sum %d, total %d, entities %d; all must match", sum, counts.Total, len(entities))
	}
}

func TestAggregate_AverageExcludesMissingLatency(t *testing.T) {
	entities := map[string]EntityRecord{
		"a": {ID: "a", Available: true, ResponseTimeMs: ms(100)},
		"b": {ID: "b", Available: true, ResponseTimeMs: ms(300)},
		"c": {ID: "c", Available: true}, // no latency reported
	}

	counts := Aggregate(entities, nil)

	if math.Abs(counts.AverageResponseTimeMs-200) > 1e-9 {
		t.Errorf("average = %v, want 200 (entity without latency excluded)", counts.AverageResponseTimeMs)
	}
}

func TestAggregate_ServiceVocabulary(t *testing.T) {
	entities := map[string]EntityRecord{
		"api":     {ID: "api", Kind: KindService, Available: true, RawStatus: "operational"},
		"queue":   {ID: "queue", Kind: KindService, Available: true, RawStatus: "degraded"},
		"db":      {ID: "db", Kind: KindService, Available: true, RawStatus: "down"},
		"cache":   {ID: "cache", Kind: KindService, Available: true, RawStatus: "flapping"},
		"webhook": {ID: "webhook", Kind: KindService, Available: true, RawStatus: "healthy"},
	}

	counts := Aggregate(entities, nil)

	if counts.Healthy != 2 {
		t.Errorf("healthy = %d, want 2", counts.Healthy)
	}
	if counts.Partial != 1 {
		t.Errorf("partial (warning) = %d, want 1", counts.Partial)
	}
	if counts.Unhealthy != 3 {
		t.Errorf("unhealthy (down+error) = %d, want 3", counts.Unhealthy)
	}
}

func TestAggregate_CustomBucketFunc(t *testing.T) {
	entities := map[string]EntityRecord{
		"a": {ID: "a"},
		"b": {ID: "b"},
	}

	counts := Aggregate(entities, func(EntityRecord) Bucket { return BucketPartial })

	if counts.Partial != 2 || counts.Healthy != 0 || counts.Unhealthy != 0 {
		t.Errorf("custom bucket counts = %+v, want everything partial", counts)
	}
}

func TestBucketOf_MixedKinds(t *testing.T) {
	tests := []struct {
		name   string
		record EntityRecord
		want   Bucket
	}{
		{"healthy tenant", EntityRecord{Kind: KindTenant, Available: true, Checks: map[string]bool{"a": true}}, BucketHealthy},
		{"partial tenant", EntityRecord{Kind: KindTenant, Available: true, Checks: map[string]bool{"a": true, "b": false}}, BucketPartial},
		{"unreachable tenant", EntityRecord{Kind: KindTenant, Available: false}, BucketUnhealthy},
		{"operational service", EntityRecord{Kind: KindService, Available: true, RawStatus: "operational"}, BucketHealthy},
		{"degraded service", EntityRecord{Kind: KindService, Available: true, RawStatus: "degraded"}, BucketPartial},
		{"offline service", EntityRecord{Kind: KindService, Available: true, RawStatus: "down"}, BucketUnhealthy},
		{"unknown status service", EntityRecord{Kind: KindService, Available: true, RawStatus: "???"}, BucketUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BucketOf(tt.record); got != tt.want {
				t.Errorf("BucketOf(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
