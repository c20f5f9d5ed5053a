package langfusetest

import (
	"context"

	langfuse "github.com/curacel/langfuse-go"
	"github.com/curacel/langfuse-go/pkg/config"
)

// TestingT is an interface that matches *testing.T and *testing.B.
type TestingT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Helper()
}

// TestPublicKey is the default test public key.
const TestPublicKey = "pk-lf-test-key"

// TestSecretKey is the default test secret key.
const TestSecretKey = "sk-lf-test-key"

// Config returns a valid configuration pointing at host with retries
// disabled.
func Config(host string) config.Config {
	cfg := config.Default()
	cfg.PublicKey = TestPublicKey
	cfg.SecretKey = TestSecretKey
	cfg.Host = host
	cfg.MaxRetries = 0
	cfg.Environment = "test"
	return cfg
}

// NewTestClient creates a client talking to a fresh MockServer. Both are
// shut down when the test ends. opts are applied after the defaults.
func NewTestClient(t TestingT, opts ...langfuse.Option) (*langfuse.Client, *MockServer) {
	t.Helper()

	server := NewMockServer()
	base := []langfuse.Option{langfuse.WithLogger(langfuse.NopLogger{})}

	client, err := langfuse.New(Config(server.URL), append(base, opts...)...)
	if err != nil {
		server.Close()
		t.Fatalf("langfusetest: create client: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Shutdown(context.Background())
		server.Close()
	})
	return client, server
}

// NewStubClient creates a client whose requests are answered by a
// StubDoer instead of the network.
func NewStubClient(t TestingT, opts ...langfuse.Option) (*langfuse.Client, *StubDoer) {
	t.Helper()

	doer := NewStubDoer()
	base := []langfuse.Option{
		langfuse.WithLogger(langfuse.NopLogger{}),
		langfuse.WithDoer(doer),
	}
	client, err := langfuse.New(Config("http://stub.invalid"), append(base, opts...)...)
	if err != nil {
		t.Fatalf("langfusetest: create client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Shutdown(context.Background())
	})
	return client, doer
}
