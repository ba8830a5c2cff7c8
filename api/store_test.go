package api

import (
	"reflect"
	"strconv"
	"testing"
	"time"

	"pscan/scanner"
)

// hashToStrings mimics what Redis hands back from HGETALL.
func hashToStrings(t *testing.T, data map[string]interface{}) map[string]string {
	t.Helper()
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case int:
			out[k] = strconv.Itoa(val)
		default:
			t.Fatalf("unexpected hash value type %T for %q", v, k)
		}
	}
	return out
}

func TestTaskSerializationRoundTrip(t *testing.T) {
	completed := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)
	task := &ScanTask{
		ID:           "11111111-2222-4333-8444-555555555555",
		Status:       StatusCompleted,
		Target:       "scanme.nmap.org",
		Ports:        "20-25",
		TimeoutMS:    250,
		Retries:      1,
		Parallel:     true,
		Workers:      8,
		AllAddresses: true,
		Results: []AddressResult{
			{
				Address: "45.33.32.156",
				Ports: []scanner.Result{
					{Port: 20, Open: false},
					{Port: 22, Open: true},
				},
			},
		},
		Incomplete:  true,
		CreatedAt:   completed.Add(-time.Minute),
		CompletedAt: &completed,
		Error:       "",
	}

	data, err := serializeTask(task)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	got, err := deserializeTask(hashToStrings(t, data))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if !reflect.DeepEqual(task, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", task, got)
	}
}

func TestTaskSerializationEmptyOptionals(t *testing.T) {
	task := &ScanTask{
		ID:        "22222222-3333-4444-8555-666666666666",
		Status:    StatusPending,
		Target:    "127.0.0.1",
		Ports:     "1-100",
		TimeoutMS: 500,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	data, err := serializeTask(task)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	got, err := deserializeTask(hashToStrings(t, data))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	if got.Results != nil || got.CompletedAt != nil {
		t.Fatalf("optionals not empty: %+v", got)
	}
	if !reflect.DeepEqual(task, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", task, got)
	}
}
