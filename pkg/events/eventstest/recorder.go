package eventstest

import (
	"context"
	"encoding/json"
	"sync"
)

type Record struct {
	Topic string
	Key   string
	Value map[string]any
}

// Recorder is an in-memory events.Publisher for tests.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	Err     error
}

func (r *Recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	if r.Err != nil {
		return r.Err
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	var v map[string]any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Topic: topic, Key: key, Value: v})
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

func (r *Recorder) Types() []string {
	var out []string
	for _, rec := range r.Records() {
		if t, ok := rec.Value["type"].(string); ok {
			out = append(out, t)
		}
	}
	return out
}
