// README: Concurrency tests against a real PostgreSQL (run with -race).
package booking

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"drivehire/internal/modules/driver"
	"drivehire/internal/types"
)

func TestDBConcurrentCreatesSameDriver(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db, driver.NewGuard()), zap.NewNop())
	ctx := context.Background()

	driverID := insertTestDriver(t, db, "race-create@example.com")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		userID := insertTestUser(t, db, fmt.Sprintf("race-user-%d@example.com", i))
		wg.Add(1)
		go func(uid types.ID) {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateCommand{
				UserID:         uid,
				DriverID:       driverID,
				PickupLocation: fmt.Sprintf("Pickup %d", uid),
				DropLocation:   "Airport",
				TripStart:      time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
				Amount:         1200,
			})
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, driver.ErrUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 winning create, got %d", success)
	}

	var availability string
	if err := db.QueryRow(ctx, `SELECT availability FROM drivers WHERE id = $1`, int64(driverID)).Scan(&availability); err != nil {
		t.Fatalf("read driver: %v", err)
	}
	if availability != string(driver.NotAvailable) {
		t.Fatalf("expected driver held after create, got %s", availability)
	}
}

func TestDBConcurrentAcceptVsCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db, driver.NewGuard()), zap.NewNop())
	ctx := context.Background()

	driverID := insertTestDriver(t, db, "race-accept@example.com")
	userID := insertTestUser(t, db, "race-owner@example.com")

	b, err := svc.Create(ctx, CreateCommand{
		UserID:         userID,
		DriverID:       driverID,
		PickupLocation: "Indiranagar",
		DropLocation:   "Whitefield",
		TripStart:      time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC),
		Amount:         900,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{
			BookingID: b.ID, Action: "accept", ActorID: driverID, ActorRole: types.RoleDriver,
		})
		errs <- err
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Transition(ctx, TransitionCommand{
			BookingID: b.ID, Action: "cancel", ActorID: userID, ActorRole: types.RoleUser,
		})
		errs <- err
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 {
		t.Fatalf("expected at least one transition to land")
	}

	final, err := svc.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if final.Status != StatusConfirmed && final.Status != StatusCancelled {
		t.Fatalf("unexpected final status: %s", final.Status)
	}
	if final.Status == StatusCancelled {
		var availability string
		if err := db.QueryRow(ctx, `SELECT availability FROM drivers WHERE id = $1`, int64(driverID)).Scan(&availability); err != nil {
			t.Fatalf("read driver: %v", err)
		}
		if availability != string(driver.Available) {
			t.Fatalf("expected driver freed after cancel, got %s", availability)
		}
	}
}

func TestDBSameDriverDuplicateBeatsHold(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db, driver.NewGuard()), zap.NewNop())
	ctx := context.Background()

	driverID := insertTestDriver(t, db, "dup-hold@example.com")
	userID := insertTestUser(t, db, "dup-hold-user@example.com")

	cmd := CreateCommand{
		UserID:         userID,
		DriverID:       driverID,
		PickupLocation: "Indiranagar",
		DropLocation:   "Airport",
		TripStart:      time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC),
		Amount:         1100,
	}
	if _, err := svc.Create(ctx, cmd); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	// The repeat of the same request must report the duplicate, not the hold
	// the first booking placed on the driver.
	if _, err := svc.Create(ctx, cmd); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDBConcurrentDuplicateCreatesDifferentDrivers(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewStore(db, driver.NewGuard()), zap.NewNop())
	ctx := context.Background()

	userID := insertTestUser(t, db, "dup-race-user@example.com")

	const attempts = 6
	driverIDs := make([]types.ID, attempts)
	for i := range driverIDs {
		driverIDs[i] = insertTestDriver(t, db, fmt.Sprintf("dup-race-driver-%d@example.com", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for _, id := range driverIDs {
		wg.Add(1)
		go func(did types.ID) {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateCommand{
				UserID:         userID,
				DriverID:       did,
				PickupLocation: "Indiranagar",
				DropLocation:   "Airport",
				TripStart:      time.Date(2026, 10, 4, 9, 0, 0, 0, time.UTC),
				Amount:         1300,
			})
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 winning create, got %d", success)
	}

	// The losers' transactions rolled back, so their drivers stay bookable.
	var held int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM drivers WHERE availability = $1`, driver.NotAvailable,
	).Scan(&held); err != nil {
		t.Fatalf("count held drivers: %v", err)
	}
	if held != 1 {
		t.Fatalf("expected 1 held driver, got %d", held)
	}
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DRIVEHIRE_TEST_DSN")
	if dsn == "" {
		t.Skip("DRIVEHIRE_TEST_DSN not set; skipping DB-backed race tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE bookings, drivers, users RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return db
}

func insertTestDriver(t *testing.T, db *pgxpool.Pool, email string) types.ID {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO drivers (
			name, email, phone, password_hash, license_number,
			district, city, salary_per_day, rating, availability, approval_status
		) VALUES ('Test Driver', $1, '9999999999', 'x', $1, 'Central', 'Bengaluru', 800, 4.5, $2, $3)
		RETURNING id`,
		email, driver.Available, driver.ApprovalApproved,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert driver: %v", err)
	}
	return types.ID(id)
}

func insertTestUser(t *testing.T, db *pgxpool.Pool, email string) types.ID {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (username, email, phone, password_hash)
		VALUES ('Test User', $1, '8888888888', 'x')
		RETURNING id`,
		email,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return types.ID(id)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}

	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
