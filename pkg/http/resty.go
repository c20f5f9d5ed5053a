package http

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyConfig configures a RestyDoer.
type RestyConfig struct {
	// BaseURL is prepended to every request path.
	BaseURL string

	// PublicKey and SecretKey are sent as HTTP basic auth when both are set.
	PublicKey string
	SecretKey string

	// Timeout bounds a whole exchange. Default: 20s
	Timeout time.Duration

	// ConnectTimeout bounds dialing and the TLS handshake. Default: 10s
	ConnectTimeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Logger receives resty's own warnings. Default: discarded.
	Logger Logger

	// Transport overrides the round tripper, mainly for tests.
	Transport nethttp.RoundTripper
}

// RestyDoer is the production Doer. It performs a single attempt per call;
// resty's own retry support is disabled because Transport owns retries.
type RestyDoer struct {
	client *resty.Client
}

// NewRestyDoer builds a resty client from cfg.
func NewRestyDoer(cfg RestyConfig) *RestyDoer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	transport := cfg.Transport
	if transport == nil {
		dialer := &net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}
		transport = &nethttp.Transport{
			Proxy:               nethttp.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: cfg.ConnectTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	client := resty.New().
		SetTransport(transport).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(restyLogger{cfg.Logger}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.PublicKey != "" && cfg.SecretKey != "" {
		client.SetBasicAuth(cfg.PublicKey, cfg.SecretKey)
	}

	return &RestyDoer{client: client}
}

// Do implements Doer.
func (d *RestyDoer) Do(ctx context.Context, req *Request) (*Response, error) {
	r := d.client.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	for k, v := range req.Header {
		r.SetHeader(k, v)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Close releases idle connections.
func (d *RestyDoer) Close() {
	d.client.GetClient().CloseIdleConnections()
}

// restyLogger routes resty's printf-style logging into a Logger.
type restyLogger struct {
	logger Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Error(fmt.Sprintf(format, v...))
	}
}

func (l restyLogger) Warnf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Warn(fmt.Sprintf(format, v...))
	}
}

func (l restyLogger) Debugf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Debug(fmt.Sprintf(format, v...))
	}
}
