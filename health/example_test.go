package health_test

import (
	"fmt"

	"github.com/chatfleet/fleethealth/health"
)

func ExampleClassifyEntity() {
	checks := map[string]bool{
		"system reachable":    true,
		"database connected":  true,
		"configuration valid": false,
	}

	fmt.Println(health.ClassifyEntity(checks, true))
	fmt.Println(health.ClassifyEntity(checks, false))
	fmt.Println(health.ClassifyEntity(nil, true))
	// Output:
	// partial
	// unhealthy
	// healthy
}

func ExampleClassifyService() {
	fmt.Println(health.ClassifyService("operational"))
	fmt.Println(health.ClassifyService("DEGRADED"))
	fmt.Println(health.ClassifyService("down"))
	fmt.Println(health.ClassifyService("on fire"))
	// Output:
	// healthy
	// warning
	// offline
	// error
}

func ExampleAggregate() {
	entities := map[string]health.EntityRecord{
		"acme":    {ID: "acme", Available: true, Checks: map[string]bool{"a": true, "b": true}},
		"globex":  {ID: "globex", Available: true, Checks: map[string]bool{"a": true, "b": false}},
		"initech": {ID: "initech", Available: false},
	}

	counts := health.Aggregate(entities, nil)
	fmt.Printf("healthy=%d partial=%d unhealthy=%d total=%d\n",
		counts.Healthy, counts.Partial, counts.Unhealthy, counts.Total)
	// Output:
	// healthy=1 partial=1 unhealthy=1 total=3
}
