// Package client implements the health-check client for the chatbot
// backend's admin API.
//
// The Client interface is what the engine consumes: one call for the
// fleet-wide summary, one for a single tenant's detail, and one for a
// single service's detail. HTTPClient is the concrete implementation,
// wrapping each probe in a timeout and bounded retries so transport
// flakiness surfaces as an ordinary *TransportError instead of a hung or
// crashed session.
//
//	c, err := client.NewHTTPClient(client.Config{
//	    BaseURL: "https://backend.internal/admin/api",
//	    Token:   os.Getenv("BACKEND_TOKEN"),
//	})
//	report, err := c.CheckFleet(ctx)
//
// Backends report service status as either a boolean or a string; the
// StatusValue type decodes both shapes.
package client
