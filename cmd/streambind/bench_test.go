package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestResolveBenchConfig(t *testing.T) {
	tests := []struct {
		name     string
		profile  string
		override benchConfig
		want     benchConfig
		wantErr  bool
	}{
		{
			name:     "profile defaults",
			profile:  "fast",
			override: benchConfig{Streams: -1},
			want:     benchConfig{Profile: "fast", Clients: 20, Duration: 5 * time.Second, Tick: 50 * time.Millisecond, Streams: 2},
		},
		{
			name:     "overrides",
			profile:  " Stress ",
			override: benchConfig{Clients: 3, Duration: time.Second, Tick: time.Millisecond, Streams: 0, JSONOutput: "-"},
			want:     benchConfig{Profile: "stress", Clients: 3, Duration: time.Second, Tick: time.Millisecond, Streams: 0, JSONOutput: "-"},
		},
		{
			name:     "unknown profile",
			profile:  "huge",
			override: benchConfig{Streams: -1},
			wantErr:  true,
		},
		{
			name:     "negative clients",
			profile:  "fast",
			override: benchConfig{Clients: -1, Streams: -1},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveBenchConfig(tt.profile, tt.override)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveBenchConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveBenchConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	sorted := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1},
		{0.5, 5},
		{0.95, 10},
		{1, 10},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %v, want 0", got)
	}
}

func TestRunBench_Small(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping load test in short mode")
	}

	out, err := execute(t, "bench", "--clients=2", "--duration=300ms", "--tick=20ms", "--streams=1")
	if err != nil {
		t.Fatalf("bench error = %v", err)
	}

	var report benchReport
	if err := json.NewDecoder(strings.NewReader(out)).Decode(&report); err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, out)
	}
	if report.Workload.Clients != 2 {
		t.Errorf("Clients = %d, want 2", report.Workload.Clients)
	}
	// Each client gets at least its mount frame.
	if report.Throughput.FramesTotal < 2 {
		t.Errorf("FramesTotal = %d, want >= 2", report.Throughput.FramesTotal)
	}
	if report.Errors.HandshakeFailures != 0 {
		t.Errorf("HandshakeFailures = %d, want 0", report.Errors.HandshakeFailures)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, benchReport{
		Workload:  workloadInfo{Profile: "fast", Clients: 1},
		LatencyMS: latencyInfo{Min: 1, P50: 2, P95: 3, P99: 4, Max: 5},
	})
	for _, want := range []string{"Profile: fast", "p99: 4.00 ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}
}
