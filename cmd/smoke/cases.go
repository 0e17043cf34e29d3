// README: Smoke checks: connectivity, registration, booking lifecycle, conflict handling.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"drivehire/internal/auth"
	"drivehire/internal/types"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// state threaded between checks
	userToken   string
	driverToken string
	adminToken  string
	driverID    int64
	bookingID   int64
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type Check struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	checks := r.checks()
	results := make([]Result, 0, len(checks))

	for _, c := range checks {
		res := c.Run(ctx, r)
		res.Name = c.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, c.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) checks() []Check {
	suffix := time.Now().UnixNano()
	tripStart := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Hour)

	return []Check{
		{
			Name: "env: postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "env: redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "SKIP", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "api: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.do(ctx, http.MethodGet, "/health", "", nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "flow: register customer",
			Run: func(ctx context.Context, r *Runner) Result {
				body := map[string]any{
					"username": "Smoke Customer",
					"email":    fmt.Sprintf("smoke-user-%d@example.com", suffix),
					"phone":    "9000000001",
					"password": "smoke-pass",
					"district": "Central",
				}
				status, resp, err := r.do(ctx, http.MethodPost, "/api/users/register", "", body)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusCreated {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				var out struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(resp, &out); err != nil || out.Token == "" {
					return Result{Status: "FAIL", Note: "no token in response"}
				}
				r.userToken = out.Token
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: register driver",
			Run: func(ctx context.Context, r *Runner) Result {
				body := map[string]any{
					"name":          "Smoke Driver",
					"email":         fmt.Sprintf("smoke-driver-%d@example.com", suffix),
					"phone":         "9000000002",
					"password":      "smoke-pass",
					"licenseNumber": fmt.Sprintf("SMK-%d", suffix),
					"district":      "Central",
					"city":          "Bengaluru",
					"salaryPerDay":  800,
				}
				status, resp, err := r.do(ctx, http.MethodPost, "/api/drivers/register", "", body)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusCreated {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				var out struct {
					ID int64 `json:"id"`
				}
				if err := json.Unmarshal(resp, &out); err != nil || out.ID == 0 {
					return Result{Status: "FAIL", Note: "no driver id in response"}
				}
				r.driverID = out.ID
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: approve driver (admin)",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.JWTSecret == "" {
					return Result{Status: "SKIP", Note: "no -jwt-secret; cannot mint admin token"}
				}
				token, err := auth.Sign(r.cfg.JWTSecret, 1, types.RoleAdmin, time.Hour)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				r.adminToken = token

				path := fmt.Sprintf("/api/admin/drivers/%d/approval", r.driverID)
				status, _, err := r.do(ctx, http.MethodPost, path, token, map[string]any{"approved": true})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: driver login",
			Run: func(ctx context.Context, r *Runner) Result {
				body := map[string]any{
					"email":    fmt.Sprintf("smoke-driver-%d@example.com", suffix),
					"password": "smoke-pass",
				}
				status, resp, err := r.do(ctx, http.MethodPost, "/api/drivers/login", "", body)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d", status)}
				}
				var out struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(resp, &out); err != nil || out.Token == "" {
					return Result{Status: "FAIL", Note: "no token in response"}
				}
				r.driverToken = out.Token
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: create booking",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.adminToken == "" {
					return Result{Status: "SKIP", Note: "driver not approved"}
				}
				start := time.Now()
				status, resp, err := r.do(ctx, http.MethodPost, "/api/bookings", r.userToken, map[string]any{
					"driverId":       r.driverID,
					"pickupLocation": "Indiranagar",
					"dropLocation":   "Airport",
					"tripStart":      tripStart.Format(time.RFC3339),
					"amount":         1500,
				})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusCreated {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d: %s", status, resp)}
				}
				var out struct {
					ID     int64  `json:"id"`
					Status string `json:"status"`
				}
				if err := json.Unmarshal(resp, &out); err != nil || out.ID == 0 {
					return Result{Status: "FAIL", Note: "no booking id in response"}
				}
				if out.Status != "Pending" {
					return Result{Status: "FAIL", Note: "expected Pending, got " + out.Status}
				}
				r.bookingID = out.ID
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "conflict: booking a held driver",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.bookingID == 0 {
					return Result{Status: "SKIP", Note: "no booking"}
				}
				status, _, err := r.do(ctx, http.MethodPost, "/api/bookings", r.userToken, map[string]any{
					"driverId":       r.driverID,
					"pickupLocation": "Koramangala",
					"dropLocation":   "Airport",
					"tripStart":      tripStart.Add(time.Hour).Format(time.RFC3339),
					"amount":         1500,
				})
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusConflict {
					return Result{Status: "FAIL", Note: fmt.Sprintf("expected 409, got %d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: driver accepts",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.bookingID == 0 {
					return Result{Status: "SKIP", Note: "no booking"}
				}
				path := fmt.Sprintf("/api/bookings/%d/accept", r.bookingID)
				status, resp, err := r.do(ctx, http.MethodPost, path, r.driverToken, nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d: %s", status, resp)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "flow: driver completes",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.bookingID == 0 {
					return Result{Status: "SKIP", Note: "no booking"}
				}
				path := fmt.Sprintf("/api/bookings/%d/complete", r.bookingID)
				status, resp, err := r.do(ctx, http.MethodPost, path, r.driverToken, nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status %d: %s", status, resp)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "conflict: action on completed booking",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.bookingID == 0 {
					return Result{Status: "SKIP", Note: "no booking"}
				}
				path := fmt.Sprintf("/api/bookings/%d/cancel", r.bookingID)
				status, _, err := r.do(ctx, http.MethodPost, path, r.userToken, nil)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if status != http.StatusConflict {
					return Result{Status: "FAIL", Note: fmt.Sprintf("expected 409, got %d", status)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "race: concurrent creates, one winner",
			Run:  r.raceCheck(tripStart.Add(72 * time.Hour)),
		},
	}
}

// raceCheck fires Concurrency simultaneous creates for one freed driver and
// expects exactly one 201.
func (r *Runner) raceCheck(tripStart time.Time) func(ctx context.Context, r *Runner) Result {
	return func(ctx context.Context, r *Runner) Result {
		if r.bookingID == 0 || r.userToken == "" {
			return Result{Status: "SKIP", Note: "flow incomplete"}
		}

		n := r.cfg.Concurrency
		var wg sync.WaitGroup
		statuses := make(chan int, n)

		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				status, _, err := r.do(ctx, http.MethodPost, "/api/bookings", r.userToken, map[string]any{
					"driverId":       r.driverID,
					"pickupLocation": fmt.Sprintf("Pickup %d", i),
					"dropLocation":   "Airport",
					"tripStart":      tripStart.Format(time.RFC3339),
					"amount":         1000,
				})
				if err != nil {
					statuses <- 0
					return
				}
				statuses <- status
			}(i)
		}
		wg.Wait()
		close(statuses)

		created := 0
		for s := range statuses {
			if s == http.StatusCreated {
				created++
			}
		}
		if created != 1 {
			return Result{Status: "FAIL", Note: fmt.Sprintf("expected 1 created, got %d", created)}
		}
		return Result{Status: "PASS"}
	}
}

func (r *Runner) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}
