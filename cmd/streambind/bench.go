package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/vango-dev/streambind/internal/errors"
	"github.com/vango-dev/streambind/pkg/host"
	"github.com/vango-dev/streambind/pkg/server"
)

type profile struct {
	Name     string
	Clients  int
	Duration time.Duration
	Tick     time.Duration
	Streams  int
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Clients:  20,
		Duration: 5 * time.Second,
		Tick:     50 * time.Millisecond,
		Streams:  2,
	},
	"standard": {
		Name:     "standard",
		Clients:  100,
		Duration: 20 * time.Second,
		Tick:     20 * time.Millisecond,
		Streams:  4,
	},
	"stress": {
		Name:     "stress",
		Clients:  500,
		Duration: 60 * time.Second,
		Tick:     10 * time.Millisecond,
		Streams:  8,
	},
}

type benchConfig struct {
	Profile    string
	Clients    int
	Duration   time.Duration
	Tick       time.Duration
	Streams    int
	JSONOutput string
}

type benchCounters struct {
	frames     atomic.Uint64
	frameBytes atomic.Uint64

	handshakeFailures   atomic.Uint64
	frameDecodeFailures atomic.Uint64
	totalErrors         atomic.Uint64
}

func benchCmd() *cobra.Command {
	var (
		profileName string
		override    benchConfig
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load test the dashboard server in-process",
		Long: `Start the dashboard server on a loopback port, connect --clients
WebSocket clients and measure how quickly rendered frames reach them.

Latency is the time from a frame's render on the server to its decode on
the client.

Examples:
  streambind bench --profile=fast
  streambind bench --clients=300 --duration=30s --json=report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveBenchConfig(profileName, override)
			if err != nil {
				return err
			}
			report, err := runBench(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			writeSummary(cmd.ErrOrStderr(), report)
			return writeJSON(cmd.OutOrStdout(), cfg.JSONOutput, report)
		},
	}

	f := cmd.Flags()
	f.StringVar(&profileName, "profile", "fast", "Profile: fast|standard|stress")
	f.IntVar(&override.Clients, "clients", 0, "Number of concurrent WebSocket clients")
	f.DurationVar(&override.Duration, "duration", 0, "Benchmark duration, e.g. 30s")
	f.DurationVar(&override.Tick, "tick", 0, "Stream emission interval per session")
	f.IntVar(&override.Streams, "streams", -1, "Counter streams per session")
	f.StringVar(&override.JSONOutput, "json", "-", "JSON output path ('-' for stdout, '' to skip)")

	return cmd
}

func resolveBenchConfig(name string, override benchConfig) (benchConfig, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "fast"
	}
	base, ok := profiles[name]
	if !ok {
		return benchConfig{}, errors.New("E122").WithDetailf("unknown profile %q", name)
	}

	cfg := benchConfig{
		Profile:    base.Name,
		Clients:    base.Clients,
		Duration:   base.Duration,
		Tick:       base.Tick,
		Streams:    base.Streams,
		JSONOutput: override.JSONOutput,
	}
	if override.Clients != 0 {
		cfg.Clients = override.Clients
	}
	if override.Duration != 0 {
		cfg.Duration = override.Duration
	}
	if override.Tick != 0 {
		cfg.Tick = override.Tick
	}
	if override.Streams >= 0 {
		cfg.Streams = override.Streams
	}

	if cfg.Clients <= 0 {
		return benchConfig{}, errors.New("E122").WithDetail("--clients must be > 0")
	}
	if cfg.Duration <= 0 {
		return benchConfig{}, errors.New("E122").WithDetail("--duration must be > 0")
	}
	if cfg.Tick <= 0 {
		return benchConfig{}, errors.New("E122").WithDetail("--tick must be > 0")
	}
	return cfg, nil
}

func runBench(parent context.Context, cfg benchConfig) (benchReport, error) {
	scfg := server.DefaultConfig()
	scfg.Tick = cfg.Tick
	scfg.Streams = cfg.Streams
	scfg.FrameBuffer = 256
	scfg.CheckOrigin = func(r *http.Request) bool { return true }
	srv := server.New(scfg)

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return benchReport{}, fmt.Errorf("listen: %w", err)
	}
	httpServer := &http.Server{Handler: srv.Handler()}
	go func() {
		_ = httpServer.Serve(ln)
	}()
	defer func() {
		_ = srv.Shutdown(context.Background())
		_ = httpServer.Shutdown(context.Background())
	}()

	wsURL := "ws://" + ln.Addr().String() + "/ws"

	ctx, cancel := context.WithTimeout(parent, cfg.Duration)
	defer cancel()

	var (
		counters  benchCounters
		samplesMu sync.Mutex
		samples   []time.Duration
	)

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(cfg.Clients)
	for i := 0; i < cfg.Clients; i++ {
		go func() {
			defer wg.Done()
			local, err := runClient(ctx, wsURL, &counters)
			if err != nil {
				counters.totalErrors.Add(1)
			}
			samplesMu.Lock()
			samples = append(samples, local...)
			samplesMu.Unlock()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return buildReport(cfg, elapsed, samples, &counters, before, after), nil
}

// runClient reads frames until ctx ends and returns delivery latencies.
func runClient(ctx context.Context, url string, counters *benchCounters) ([]time.Duration, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		counters.handshakeFailures.Add(1)
		return nil, err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	var latencies []time.Duration
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return latencies, nil
			}
			return latencies, err
		}

		var f host.Frame
		if err := json.Unmarshal(data, &f); err != nil {
			counters.frameDecodeFailures.Add(1)
			continue
		}
		latencies = append(latencies, time.Since(f.At))
		counters.frames.Add(1)
		counters.frameBytes.Add(uint64(len(data)))
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type benchReport struct {
	Version    string         `json:"version"`
	Run        runInfo        `json:"run"`
	Workload   workloadInfo   `json:"workload"`
	LatencyMS  latencyInfo    `json:"latency_ms"`
	Throughput throughputInfo `json:"throughput"`
	GC         gcInfo         `json:"gc"`
	Errors     errorInfo      `json:"errors"`
}

type runInfo struct {
	Timestamp string `json:"timestamp"`
	Go        string `json:"go"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	Version   string `json:"streambind_version"`
}

type workloadInfo struct {
	Profile    string `json:"profile"`
	Clients    int    `json:"clients"`
	DurationMS int64  `json:"duration_ms"`
	TickMS     int64  `json:"tick_ms"`
	Streams    int    `json:"streams"`
}

type latencyInfo struct {
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
	Max float64 `json:"max"`
}

type throughputInfo struct {
	FramesTotal        uint64  `json:"frames_total"`
	FramesPerSec       float64 `json:"frames_per_sec"`
	FramesPerSecClient float64 `json:"frames_per_sec_per_client"`
	AvgFrameBytes      float64 `json:"avg_frame_bytes"`
}

type gcInfo struct {
	AllocMB      float64 `json:"alloc_mb"`
	HeapLiveMB   float64 `json:"heap_live_mb"`
	NumGC        uint32  `json:"num_gc"`
	PauseTotalMS float64 `json:"pause_total_ms"`
}

type errorInfo struct {
	TotalErrors         uint64 `json:"total_errors"`
	HandshakeFailures   uint64 `json:"handshake_failures"`
	FrameDecodeFailures uint64 `json:"frame_decode_failures"`
}

func buildReport(
	cfg benchConfig,
	elapsed time.Duration,
	latencies []time.Duration,
	counters *benchCounters,
	before runtime.MemStats,
	after runtime.MemStats,
) benchReport {
	frames := counters.frames.Load()
	frameBytes := counters.frameBytes.Load()

	elapsedSeconds := math.Max(0.001, elapsed.Seconds())
	framesPerSec := float64(frames) / elapsedSeconds

	latency := latencyInfo{}
	if len(latencies) > 0 {
		latency = latencyInfo{
			Min: ms(latencies[0]),
			P50: ms(percentile(latencies, 0.50)),
			P95: ms(percentile(latencies, 0.95)),
			P99: ms(percentile(latencies, 0.99)),
			Max: ms(latencies[len(latencies)-1]),
		}
	}

	avgFrameBytes := 0.0
	if frames > 0 {
		avgFrameBytes = float64(frameBytes) / float64(frames)
	}

	return benchReport{
		Version: "1",
		Run: runInfo{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Go:        runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			CPUCount:  runtime.NumCPU(),
			Version:   version,
		},
		Workload: workloadInfo{
			Profile:    cfg.Profile,
			Clients:    cfg.Clients,
			DurationMS: cfg.Duration.Milliseconds(),
			TickMS:     cfg.Tick.Milliseconds(),
			Streams:    cfg.Streams,
		},
		LatencyMS: latency,
		Throughput: throughputInfo{
			FramesTotal:        frames,
			FramesPerSec:       framesPerSec,
			FramesPerSecClient: framesPerSec / float64(cfg.Clients),
			AvgFrameBytes:      avgFrameBytes,
		},
		GC: gcInfo{
			AllocMB:      float64(after.TotalAlloc-before.TotalAlloc) / (1024 * 1024),
			HeapLiveMB:   float64(after.HeapAlloc) / (1024 * 1024),
			NumGC:        after.NumGC - before.NumGC,
			PauseTotalMS: ms(time.Duration(after.PauseTotalNs - before.PauseTotalNs)),
		},
		Errors: errorInfo{
			TotalErrors:         counters.totalErrors.Load(),
			HandshakeFailures:   counters.handshakeFailures.Load(),
			FrameDecodeFailures: counters.frameDecodeFailures.Load(),
		},
	}
}

func writeSummary(w io.Writer, report benchReport) {
	fmt.Fprintln(w, "=== streambind frame benchmark ===")
	fmt.Fprintf(w, "Profile: %s\n", report.Workload.Profile)
	fmt.Fprintf(w, "Clients: %d\n", report.Workload.Clients)
	fmt.Fprintf(w, "Duration: %s\n", time.Duration(report.Workload.DurationMS)*time.Millisecond)
	fmt.Fprintf(w, "Tick: %s, streams per session: %d\n", time.Duration(report.Workload.TickMS)*time.Millisecond, report.Workload.Streams)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total frames: %d\n", report.Throughput.FramesTotal)
	fmt.Fprintf(w, "Throughput: %.1f frames/s (%.2f per client)\n", report.Throughput.FramesPerSec, report.Throughput.FramesPerSecClient)
	fmt.Fprintf(w, "Avg frame: %.1f bytes\n", report.Throughput.AvgFrameBytes)
	fmt.Fprintf(w, "Errors: %d\n", report.Errors.TotalErrors)
	fmt.Fprintln(w)

	if report.LatencyMS.Max == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		fmt.Fprintln(w, "Delivery (server render -> client decode):")
		fmt.Fprintf(w, "  min: %.2f ms\n", report.LatencyMS.Min)
		fmt.Fprintf(w, "  p50: %.2f ms\n", report.LatencyMS.P50)
		fmt.Fprintf(w, "  p95: %.2f ms\n", report.LatencyMS.P95)
		fmt.Fprintf(w, "  p99: %.2f ms\n", report.LatencyMS.P99)
		fmt.Fprintf(w, "  max: %.2f ms\n", report.LatencyMS.Max)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Go runtime / GC (process-wide):")
	fmt.Fprintf(w, "  alloc:     %.2f MB\n", report.GC.AllocMB)
	fmt.Fprintf(w, "  heap_live: %.2f MB\n", report.GC.HeapLiveMB)
	fmt.Fprintf(w, "  num_gc:    %d\n", report.GC.NumGC)
	fmt.Fprintf(w, "  gc_pause:  %.2f ms (total)\n", report.GC.PauseTotalMS)
}

func writeJSON(stdout io.Writer, path string, report benchReport) error {
	if path == "" {
		return nil
	}
	out := stdout
	if path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
