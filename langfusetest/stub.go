package langfusetest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	lfhttp "github.com/curacel/langfuse-go/pkg/http"
)

// StubDoer is an http.Doer answering from a queue of canned responses.
// When the queue is empty it fails with lfhttp.ErrStubQueueEmpty, which
// the transport never retries.
type StubDoer struct {
	mu       sync.Mutex
	queue    []stubReply
	requests []*lfhttp.Request
}

type stubReply struct {
	resp *lfhttp.Response
	err  error
}

var _ lfhttp.Doer = (*StubDoer)(nil)

// NewStubDoer creates an empty StubDoer.
func NewStubDoer() *StubDoer {
	return &StubDoer{}
}

// Push queues a response with status and body marshalled as JSON. A
// []byte or string body is sent as is.
func (d *StubDoer) Push(status int, body any) *StubDoer {
	var raw []byte
	switch b := body.(type) {
	case nil:
	case []byte:
		raw = b
	case string:
		raw = []byte(b)
	default:
		var err error
		if raw, err = json.Marshal(b); err != nil {
			panic("langfusetest: cannot marshal stub body: " + err.Error())
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, stubReply{resp: &lfhttp.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       raw,
	}})
	return d
}

// PushError queues a transport error.
func (d *StubDoer) PushError(err error) *StubDoer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, stubReply{err: err})
	return d
}

// Do implements lfhttp.Doer.
func (d *StubDoer) Do(ctx context.Context, req *lfhttp.Request) (*lfhttp.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if len(d.queue) == 0 {
		return nil, lfhttp.ErrStubQueueEmpty
	}
	next := d.queue[0]
	d.queue = d.queue[1:]
	return next.resp, next.err
}

// Requests returns every request received, including failed ones.
func (d *StubDoer) Requests() []*lfhttp.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*lfhttp.Request{}, d.requests...)
}

// Remaining returns the number of queued replies.
func (d *StubDoer) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
