// Package http is the resilient transport of the Langfuse SDK.
//
// A Transport sends Requests through a Doer (normally the resty-backed
// RestyDoer), retrying transient failures according to a RetryPolicy and
// guarding each service key with a CircuitBreaker. Every error a Transport
// returns is an *errors.NetworkError.
//
//	breaker := http.NewCircuitBreaker(http.DefaultCircuitBreakerConfig())
//	transport := http.NewTransport(http.TransportConfig{
//	    Doer:    http.NewRestyDoer(http.RestyConfig{BaseURL: cfg.BaseURL()}),
//	    Breaker: breaker,
//	    Policy:  http.DefaultRetryPolicy(),
//	})
//	resp, err := transport.Send(ctx, &http.Request{
//	    Method:     "POST",
//	    Path:       "/api/public/ingestion",
//	    Body:       batch,
//	    ServiceKey: "ingestion",
//	})
package http
