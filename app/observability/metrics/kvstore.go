package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kelana-travel/kelana/app/kv"
)

var (
	_ kv.Store   = (*instrumentedStore)(nil)
	_ kv.Watcher = (*instrumentedStore)(nil)
)

// WrapStore decorates a kv backend with operation counters and latency
// histograms. Watch calls pass straight through to the underlying backend.
func WrapStore(s kv.Store, m *AppMetrics) kv.Store {
	if m == nil {
		return s
	}
	return &instrumentedStore{next: s, m: m}
}

type instrumentedStore struct {
	next kv.Store
	m    *AppMetrics
}

func (s *instrumentedStore) record(ctx context.Context, op string, start time.Time, read bool, err error) {
	attrs := metric.WithAttributes(attribute.String("op", op))
	if read {
		s.m.KvReadsTotal.Add(ctx, 1, attrs)
	} else {
		s.m.KvWritesTotal.Add(ctx, 1, attrs)
	}
	if err != nil {
		s.m.KvErrorsTotal.Add(ctx, 1, attrs)
	}
	s.m.KvOpDurationSecs.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (s *instrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	raw, err := s.next.Get(ctx, key)
	s.record(ctx, "get", start, true, err)
	return raw, err
}

func (s *instrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.record(ctx, "set", start, false, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	s.record(ctx, "delete", start, false, err)
	return err
}

func (s *instrumentedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := s.next.Keys(ctx, prefix)
	s.record(ctx, "keys", start, true, err)
	return keys, err
}

func (s *instrumentedStore) Watch(ctx context.Context) (<-chan kv.Event, error) {
	return kv.WatchStore(ctx, s.next)
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
