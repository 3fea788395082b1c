package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Token           string
	NumStudents     int
	ConcurrentUsers int
	SessionCapacity int
}

// LoadTestResult holds the results of one registration race
type LoadTestResult struct {
	TotalRequests     int
	Registered        int
	Full              int
	Busy              int
	FailedReqs        int
	AvgResponseTimeMs float64
	MaxResponseTimeMs int64
	MinResponseTimeMs int64
	ThroughputRPS     float64
	ErrorsByType      map[string]int
}

// LoadTester races many students for the seats of a single session and
// checks afterwards that the session never went over capacity.
type LoadTester struct {
	config    LoadTestConfig
	client    *http.Client
	students  []int64
	sessionID int64
	results   LoadTestResult
	mutex     sync.Mutex
	startTime time.Time
}

// NewLoadTester creates a new load tester
func NewLoadTester(config LoadTestConfig) *LoadTester {
	if config.ConcurrentUsers < 1 {
		config.ConcurrentUsers = 1
	}
	return &LoadTester{
		config: config,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		results: LoadTestResult{
			ErrorsByType: make(map[string]int),
		},
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (lt *LoadTester) do(method, path string, body any) (int, *apiEnvelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, lt.config.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if lt.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+lt.config.Token)
	}

	resp, err := lt.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return resp.StatusCode, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, &envelope, nil
}

func (lt *LoadTester) create(path string, body any) (int64, error) {
	status, envelope, err := lt.do(http.MethodPost, path, body)
	if err != nil {
		return 0, err
	}
	if status != http.StatusCreated {
		return 0, fmt.Errorf("POST %s returned %d: %s", path, status, envelope.Message)
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &created); err != nil {
		return 0, fmt.Errorf("failed to decode created id: %w", err)
	}
	return created.ID, nil
}

// Initialize creates one lecture, one session and the competing students
func (lt *LoadTester) Initialize() error {
	fmt.Println("Initializing load test data...")

	run := uuid.NewString()[:8]
	lectureID, err := lt.create("/api/v1/courses", map[string]any{
		"lecture_name": "Load test " + run,
	})
	if err != nil {
		return err
	}

	lt.sessionID, err = lt.create("/api/v1/lecture-sessions", map[string]any{
		"lecture_id":   lectureID,
		"session_time": time.Now().UTC().Add(24 * time.Hour),
		"capacity":     lt.config.SessionCapacity,
	})
	if err != nil {
		return err
	}

	lt.students = make([]int64, 0, lt.config.NumStudents)
	for i := 0; i < lt.config.NumStudents; i++ {
		id, err := lt.create("/api/v1/students", map[string]any{
			"first_name": "Load",
			"last_name":  fmt.Sprintf("Tester %d", i+1),
			"email":      fmt.Sprintf("loadtest-%s-%d@example.com", run, i+1),
		})
		if err != nil {
			return err
		}
		lt.students = append(lt.students, id)
	}

	fmt.Printf("Created session %d (capacity %d) and %d students\n", lt.sessionID, lt.config.SessionCapacity, len(lt.students))
	return nil
}

// RunLoadTest fires one registration per student, ConcurrentUsers at a time
func (lt *LoadTester) RunLoadTest() {
	fmt.Printf("Starting load test with %d concurrent users...\n", lt.config.ConcurrentUsers)

	lt.startTime = time.Now()
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, lt.config.ConcurrentUsers)

	for _, studentID := range lt.students {
		wg.Add(1)
		go func(studentID int64) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			lt.register(studentID)
		}(studentID)
	}

	wg.Wait()

	lt.calculateMetrics()
	lt.printResults()
}

func (lt *LoadTester) register(studentID int64) {
	startTime := time.Now()
	status, envelope, err := lt.do(http.MethodPost, "/api/v1/student-sessions/register", map[string]int64{
		"student_id": studentID,
		"session_id": lt.sessionID,
	})
	if err != nil {
		lt.recordError("http_request")
		return
	}

	message := ""
	if envelope != nil {
		message = envelope.Message
	}
	lt.recordResponse(status, message, time.Since(startTime))
}

// recordResponse records the response metrics
func (lt *LoadTester) recordResponse(statusCode int, message string, responseTime time.Duration) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	responseTimeMs := responseTime.Milliseconds()

	if lt.results.MaxResponseTimeMs < responseTimeMs {
		lt.results.MaxResponseTimeMs = responseTimeMs
	}
	if lt.results.MinResponseTimeMs == 0 || lt.results.MinResponseTimeMs > responseTimeMs {
		lt.results.MinResponseTimeMs = responseTimeMs
	}

	currentAvg := lt.results.AvgResponseTimeMs
	currentCount := float64(lt.results.TotalRequests)
	lt.results.AvgResponseTimeMs = (currentAvg*(currentCount-1) + float64(responseTimeMs)) / currentCount

	switch {
	case statusCode == http.StatusCreated:
		lt.results.Registered++
	case statusCode == http.StatusBadRequest && message == "Session is full":
		lt.results.Full++
	case statusCode == http.StatusServiceUnavailable:
		lt.results.Busy++
	default:
		lt.results.FailedReqs++
		lt.results.ErrorsByType[fmt.Sprintf("http_%d", statusCode)]++
	}
}

// recordError records an error that occurred during testing
func (lt *LoadTester) recordError(errorType string) {
	lt.mutex.Lock()
	defer lt.mutex.Unlock()

	lt.results.TotalRequests++
	lt.results.FailedReqs++
	lt.results.ErrorsByType[errorType]++
}

func (lt *LoadTester) calculateMetrics() {
	totalDuration := time.Since(lt.startTime)
	lt.results.ThroughputRPS = float64(lt.results.TotalRequests) / totalDuration.Seconds()
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func (lt *LoadTester) printResults() {
	r := lt.results
	fmt.Println("\n" + strings.Repeat("=", 80))

	fmt.Printf("Test Configuration:\n")
	fmt.Printf("  - Concurrent Users: %d\n", lt.config.ConcurrentUsers)
	fmt.Printf("  - Competing Students: %d\n", lt.config.NumStudents)
	fmt.Printf("  - Session Capacity: %d seats\n", lt.config.SessionCapacity)

	fmt.Printf("\nOutcomes:\n")
	fmt.Printf("  - Total Requests: %d\n", r.TotalRequests)
	fmt.Printf("  - Registered: %d (%.2f%%)\n", r.Registered, percent(r.Registered, r.TotalRequests))
	fmt.Printf("  - Session full: %d (%.2f%%)\n", r.Full, percent(r.Full, r.TotalRequests))
	fmt.Printf("  - Busy (retriable): %d (%.2f%%)\n", r.Busy, percent(r.Busy, r.TotalRequests))
	fmt.Printf("  - Failed: %d (%.2f%%)\n", r.FailedReqs, percent(r.FailedReqs, r.TotalRequests))

	fmt.Printf("\nResponse Time Metrics:\n")
	fmt.Printf("  - Average: %.2f ms\n", r.AvgResponseTimeMs)
	fmt.Printf("  - Minimum: %d ms\n", r.MinResponseTimeMs)
	fmt.Printf("  - Maximum: %d ms\n", r.MaxResponseTimeMs)
	fmt.Printf("  - Requests per Second: %.2f\n", r.ThroughputRPS)

	if len(r.ErrorsByType) > 0 {
		fmt.Printf("\nError Breakdown:\n")
		keys := make([]string, 0, len(r.ErrorsByType))
		for k := range r.ErrorsByType {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  - %s: %d\n", k, r.ErrorsByType[k])
		}
	}
}

// Verify reads the session's headcount back and compares it with what the
// race reported. It returns an error when capacity was exceeded.
func (lt *LoadTester) Verify() error {
	status, envelope, err := lt.do(http.MethodGet, "/api/v1/queries/session-stats", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("session-stats returned %d: %s", status, envelope.Message)
	}

	var stats []struct {
		ID           int64 `json:"id"`
		Capacity     int   `json:"capacity"`
		StudentCount int   `json:"student_count"`
	}
	if err := json.Unmarshal(envelope.Data, &stats); err != nil {
		return fmt.Errorf("failed to decode session stats: %w", err)
	}

	for _, s := range stats {
		if s.ID != lt.sessionID {
			continue
		}
		fmt.Printf("\nCapacity Check:\n")
		fmt.Printf("  - Student count: %d / %d\n", s.StudentCount, s.Capacity)
		if s.StudentCount > s.Capacity {
			return fmt.Errorf("session %d over capacity: %d > %d", s.ID, s.StudentCount, s.Capacity)
		}
		if s.StudentCount != lt.results.Registered {
			fmt.Printf("  - Note: %d successful responses vs %d stored registrations (stats may be cached)\n",
				lt.results.Registered, s.StudentCount)
		}
		fmt.Printf("  - OK\n")
		return nil
	}
	return fmt.Errorf("session %d missing from session-stats", lt.sessionID)
}

// loadtestCmd represents the loadtest command
var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Race concurrent registrations against one session",
	Long: `Create a session and a set of students through the API, then register
all students for that session concurrently. Reports outcome counts and
latency, and fails if the session ends up over capacity.`,
	Run: func(cmd *cobra.Command, args []string) {
		runLoadTest()
	},
}

var (
	baseURL         string
	authToken       string
	numStudents     int
	concurrentUsers int
	sessionCapacity int
)

func init() {
	rootCmd.AddCommand(loadtestCmd)

	loadtestCmd.Flags().StringVar(&baseURL, "url", "http://localhost:3000", "Base URL of the lecture API")
	loadtestCmd.Flags().StringVar(&authToken, "token", "", "Bearer token when authentication is enabled")
	loadtestCmd.Flags().IntVar(&numStudents, "students", 200, "Number of students competing for seats")
	loadtestCmd.Flags().IntVar(&concurrentUsers, "concurrent", 100, "Number of concurrent requests")
	loadtestCmd.Flags().IntVar(&sessionCapacity, "capacity", 30, "Capacity of the contested session")
}

func runLoadTest() {
	loadTester := NewLoadTester(LoadTestConfig{
		BaseURL:         strings.TrimRight(baseURL, "/"),
		Token:           authToken,
		NumStudents:     numStudents,
		ConcurrentUsers: concurrentUsers,
		SessionCapacity: sessionCapacity,
	})

	fmt.Println("Lecture Registration Load Test")
	fmt.Println("==============================")

	if err := loadTester.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
		os.Exit(1)
	}

	loadTester.RunLoadTest()

	if err := loadTester.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}
}
