package langfusetest

import (
	"testing"
	"time"
)

func TestMockMetrics(t *testing.T) {
	m := NewMockMetrics()

	m.IncrementCounter("events", 1)
	m.IncrementCounter("events", 2)
	m.SetGauge("pending", 3)
	m.SetGauge("pending", 1)
	m.RecordDuration("flush", 100*time.Millisecond)

	if got := m.GetCounter("events"); got != 3 {
		t.Errorf("GetCounter(events) = %d, want 3", got)
	}
	if got := m.GetGauge("pending"); got != 1 {
		t.Errorf("GetGauge(pending) = %f, want 1", got)
	}
	timings := m.GetTimings("flush")
	if len(timings) != 1 || timings[0] != 100*time.Millisecond {
		t.Errorf("GetTimings(flush) = %v", timings)
	}

	timings[0] = 0
	if m.GetTimings("flush")[0] != 100*time.Millisecond {
		t.Error("GetTimings should return a copy")
	}

	m.Reset()
	if m.GetCounter("events") != 0 || m.GetGauge("pending") != 0 || len(m.GetTimings("flush")) != 0 {
		t.Error("Reset should clear everything")
	}
}

func TestMockLogger(t *testing.T) {
	l := NewMockLogger()

	l.Debug("starting")
	l.Error("flush failed", "events", 3)
	l.Error("again")

	if got := l.Messages("ERROR"); len(got) != 2 || got[0] != "flush failed" {
		t.Errorf("Messages(ERROR) = %v", got)
	}
	if got := l.GetEntries()[1].String(); got != "ERROR flush failed events=3" {
		t.Errorf("String() = %q", got)
	}

	l.Reset()
	if len(l.GetEntries()) != 0 {
		t.Error("Reset should clear all entries")
	}
}
