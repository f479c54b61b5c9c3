// README: Bench cases: environment, schema, HTTP surface, and claim contention against the Postgres store.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridehub/internal/modules/authz"
	"ridehub/internal/modules/ride"
	"ridehub/internal/modules/vehicle"
	"ridehub/internal/types"
	"ridehub/migrations"
)

type Runner struct {
	cfg   Config
	log   *zap.Logger
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
	rides *ride.Service
	gw    ride.Gateway
	// org isolates this run's rides from earlier data.
	org types.ID
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config, log *zap.Logger) *Runner {
	return &Runner{
		cfg:   cfg,
		log:   log,
		httpc: &http.Client{Timeout: 10 * time.Second},
		org:   types.ID("bench_" + types.NewID().String()),
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			r.gw = ride.NewStore(db)
			r.rides = ride.NewService(ride.Deps{
				Gateway:  r.gw,
				Vehicles: vehicle.NewStore(db),
				Logger:   r.log.Named("ride"),
			})
		} else {
			r.log.Warn("postgres pool", zap.Error(err))
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
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

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "database reachable",
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
			Name:  "Env: Redis connect",
			Focus: "event stream reachable",
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
			Name:  "Migration: apply (optional)",
			Focus: "embedded schema applies cleanly",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				if err := migrations.Apply(ctx, r.db); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "schema present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				var missing []string
				for _, table := range []string{"vehicles", "rides", "ride_requests", "completion_records"} {
					var found *string
					if err := r.db.QueryRow(ctx, "SELECT to_regclass($1)::text", table).Scan(&found); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if found == nil {
						missing = append(missing, table)
					}
				}
				if len(missing) > 0 {
					return Result{Status: "FAIL", Note: "missing " + strings.Join(missing, ",")}
				}
				return Result{Status: "PASS"}
			},
		},
		httpCase("API: health", http.MethodGet, base+"/health", "", http.StatusOK),
		httpCase("API: unauthenticated create rejected", http.MethodPost, base+"/api/rides", "", http.StatusUnauthorized),
		{
			Name:  "API: authenticated vehicle list",
			Focus: "token accepted by the API",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.Token == "" {
					return Result{Status: "SKIP", Note: "no token"}
				}
				return httpCase("", http.MethodGet, base+"/api/vehicles", r.cfg.Token, http.StatusOK, http.StatusForbidden).Run(ctx, r)
			},
		},
		{
			Name:  "Contention: one winner per ride",
			Focus: "exclusive claim under concurrent drivers",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.contendedClaims(ctx, false)
			},
		},
		{
			Name:  "Contention: claims racing cancellation",
			Focus: "cancel and claim never both leave live state",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.contendedClaims(ctx, true)
			},
		},
		{
			Name:  "Perf: uncontended claim throughput",
			Focus: "create, request and claim per second",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.claimThroughput(ctx)
			},
		},
	}
}

func httpCase(name, method, url, token string, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader("{}"))
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			req.Header.Set("Content-Type", "application/json")
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			latency := time.Since(start)
			for _, s := range okStatuses {
				if resp.StatusCode == s {
					return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func (r *Runner) dispatcher() authz.Actor {
	return authz.Actor{ID: "bench_dispatcher", OrgID: r.org, Roles: authz.NewRoleSet(authz.RoleDispatcher)}
}

func (r *Runner) driver(i int) authz.Actor {
	return authz.Actor{ID: types.ID(fmt.Sprintf("bench_driver_%03d", i)), OrgID: r.org, Roles: authz.NewRoleSet(authz.RoleDriver)}
}

func (r *Runner) newRide(ctx context.Context) (*ride.Ride, error) {
	res, err := r.rides.CreateRide(ctx, ride.CreateCommand{
		Actor:      r.dispatcher(),
		ClientID:   "bench_client",
		Pickup:     ride.Place{Address: "1 Bench St"},
		Dropoff:    ride.Place{Address: "2 Bench Ave"},
		RiderCount: 1,
	})
	if err != nil {
		return nil, err
	}
	if !res.Succeeded() {
		return nil, fmt.Errorf("create ride: %s", res.Outcome)
	}
	return res.Ride, nil
}

// contendedClaims opens a ride to cfg.Concurrency drivers and has all of them
// claim at once, optionally racing a cancellation.
func (r *Runner) contendedClaims(ctx context.Context, withCancel bool) Result {
	if r.rides == nil {
		return Result{Status: "FAIL", Note: "db not configured"}
	}
	start := time.Now()
	var violations []string
	for n := 0; n < r.cfg.Rides; n++ {
		rd, err := r.newRide(ctx)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		for i := 0; i < r.cfg.Concurrency; i++ {
			if _, err := r.rides.RequestClaim(ctx, ride.RequestCommand{RideID: rd.ID, Actor: r.driver(i)}); err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
		}

		var (
			wg        sync.WaitGroup
			winners   atomic.Int32
			faults    atomic.Int32
			cancelled atomic.Bool
			gate      = make(chan struct{})
		)
		for i := 0; i < r.cfg.Concurrency; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-gate
				res, err := r.rides.ResolveClaim(ctx, ride.ClaimCommand{RideID: rd.ID, Actor: r.driver(i)})
				if err != nil {
					faults.Add(1)
					r.log.Warn("claim fault", zap.Error(err))
					return
				}
				if res.Outcome == ride.OutcomeAssigned {
					winners.Add(1)
				}
			}(i)
		}
		if withCancel {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-gate
				res, err := r.rides.Cancel(ctx, ride.TransitionCommand{RideID: rd.ID, Actor: r.dispatcher(), Reason: "bench"})
				if err == nil && res.Succeeded() {
					cancelled.Store(true)
				}
			}()
		}
		close(gate)
		wg.Wait()

		if faults.Load() > 0 {
			violations = append(violations, fmt.Sprintf("%s: %d faults", rd.ID, faults.Load()))
			continue
		}
		if msg := r.checkSettled(ctx, rd.ID, int(winners.Load()), cancelled.Load()); msg != "" {
			violations = append(violations, fmt.Sprintf("%s: %s", rd.ID, msg))
		}
	}
	elapsed := time.Since(start)
	if len(violations) > 0 {
		for _, v := range violations {
			r.log.Error("contention violation", zap.String("detail", v))
		}
		return Result{Status: "FAIL", Latency: elapsed, Note: fmt.Sprintf("%d/%d rides violated", len(violations), r.cfg.Rides)}
	}
	return Result{Status: "PASS", Latency: elapsed, Note: fmt.Sprintf("rides=%d drivers=%d", r.cfg.Rides, r.cfg.Concurrency)}
}

// checkSettled returns "" when the stored ride agrees with the observed outcomes.
func (r *Runner) checkSettled(ctx context.Context, id types.ID, winners int, cancelled bool) string {
	final, err := r.gw.GetRide(ctx, id)
	if err != nil {
		return err.Error()
	}
	pending, err := r.gw.ListPendingRequests(ctx, id)
	if err != nil {
		return err.Error()
	}
	if winners > 1 {
		return fmt.Sprintf("%d winners", winners)
	}
	switch final.Status {
	case ride.StatusScheduled:
		if winners != 1 || final.DriverID == nil {
			return "scheduled without a single winner"
		}
		if len(pending) != 1 || pending[0].DriverID != *final.DriverID {
			return fmt.Sprintf("%d pending requests after assignment", len(pending))
		}
	case ride.StatusCancelled:
		if !cancelled {
			return "cancelled without a successful cancel"
		}
		if len(pending) != 0 {
			return fmt.Sprintf("%d pending requests after cancel", len(pending))
		}
	default:
		return "unexpected status " + string(final.Status)
	}
	return ""
}

func (r *Runner) claimThroughput(ctx context.Context) Result {
	if r.rides == nil {
		return Result{Status: "FAIL", Note: "db not configured"}
	}
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			drv := r.driver(1000 + i)
			for time.Now().Before(end) && ctx.Err() == nil {
				rd, err := r.newRide(ctx)
				if err != nil {
					errCount.Add(1)
					continue
				}
				if _, err := r.rides.RequestClaim(ctx, ride.RequestCommand{RideID: rd.ID, Actor: drv}); err != nil {
					errCount.Add(1)
					continue
				}
				res, err := r.rides.ResolveClaim(ctx, ride.ClaimCommand{RideID: rd.ID, Actor: drv})
				if err != nil || res.Outcome != ride.OutcomeAssigned {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}(i)
	}
	wg.Wait()

	rate := float64(count.Load()) / r.cfg.Duration.Seconds()
	note := fmt.Sprintf("claims=%d errors=%d rate=%.1f/s", count.Load(), errCount.Load(), rate)
	if errCount.Load() > 0 {
		return Result{Status: "FAIL", Note: note}
	}
	return Result{Status: "PASS", Note: note}
}
