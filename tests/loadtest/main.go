// Command loadtest drives the read endpoints of a running daemon.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
)

const dateLayout = "20060102"

type options struct {
	baseURL  string
	workers  int
	duration time.Duration
	days     int
}

type result struct {
	endpoint string
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	var opts options
	pflag.StringVar(&opts.baseURL, "url", "http://127.0.0.1:8090", "daemon base URL")
	pflag.IntVarP(&opts.workers, "workers", "w", 20, "concurrent clients")
	pflag.DurationVarP(&opts.duration, "duration", "t", 10*time.Second, "length of each phase")
	pflag.IntVar(&opts.days, "days", 30, "how many past days to request")
	pflag.Parse()

	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        opts.workers * 2,
			MaxIdleConnsPerHost: opts.workers * 2,
			IdleConnTimeout:     30 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   2 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	fmt.Println("=== steamledger load test ===")
	fmt.Printf("Workers: %d | Phase: %s | Days: %d\n\n", opts.workers, opts.duration, opts.days)

	fmt.Print("Waiting for /health... ")
	if !waitHealthy(client, opts.baseURL) {
		fmt.Println("FAILED: daemon not responding")
		os.Exit(1)
	}
	fmt.Println("OK")

	today := time.Now()
	pick := func(rng *rand.Rand) string {
		return today.AddDate(0, 0, -rng.Intn(opts.days)).Format(dateLayout)
	}

	fmt.Println("\n--- Phase 1: closed days (cacheable) ---")
	runPhase(opts, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return get(client, "GET /ledger", fmt.Sprintf("%s/ledger?date=%s", opts.baseURL, pick(rng)))
		}
		return get(client, "GET /activity", fmt.Sprintf("%s/activity?date=%s", opts.baseURL, pick(rng)))
	})

	fmt.Println("\n--- Phase 2: today and filtered reads ---")
	runPhase(opts, func(rng *rand.Rand) result {
		switch r := rng.Float64(); {
		case r < 0.4:
			return get(client, "GET /ledger", opts.baseURL+"/ledger")
		case r < 0.7:
			url := fmt.Sprintf("%s/ledger?kind=recent&date=%s&appid=%d", opts.baseURL, pick(rng), rng.Intn(2000000)+1)
			return get(client, "GET /ledger?appid", url)
		default:
			return get(client, "GET /health", opts.baseURL+"/health")
		}
	})
}

func waitHealthy(client *http.Client, baseURL string) bool {
	for i := 0; i < 30; i++ {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return true
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

// get counts 404 as a valid answer: most dates have no table.
func get(client *http.Client, endpoint, url string) result {
	start := time.Now()
	resp, err := client.Get(url)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, lat, true}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	ok := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNotFound
	return result{endpoint, lat, !ok}
}

func runPhase(opts options, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < opts.workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}

	all := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := all[r.endpoint]
			if !ok {
				s = &stats{}
				all[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(opts.duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(all, opts.duration)
}

func printResults(all map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(all))
	for ep := range all {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-20s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 70))

	for _, ep := range endpoints {
		s := all[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})
		fmt.Printf("  %-20s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Println("  " + strings.Repeat("-", 70))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
