//go:build integration

package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"sosdesk/internal/domain"
	"sosdesk/pkg/e"
)

var (
	testPool *pgxpool.Pool
	tc       testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := testPool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, testPool); err != nil {
		fmt.Println("Migrate:", err)
		testPool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	code := m.Run()

	testPool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func newTestLogger() *slog.Logger {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE TABLE chat_messages, sos_alerts, stations, guardians, users`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func newStation(t *testing.T, repo *StationRepo, name string, lat, lng float64) *domain.Station {
	t.Helper()
	st := &domain.Station{Name: name, City: "Delhi", Helpline: "112", Lat: lat, Lng: lng}
	if err := repo.Create(context.Background(), st); err != nil {
		t.Fatalf("create station: %v", err)
	}
	return st
}

func newAlert(userID uuid.UUID, station *domain.Station) *domain.Alert {
	a := &domain.Alert{
		UserID:           userID,
		Lat:              28.7041,
		Lng:              77.1025,
		Status:           domain.AlertUnassigned,
		AssignedOfficers: []uuid.UUID{},
	}
	if station != nil {
		d := 500.0
		a.StationID = &station.ID
		a.DistanceToStationM = &d
		a.Status = domain.AlertAssigned
	}
	return a
}

func TestStationRepo_RoundTripAndUpdate(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewStationRepo(testPool, newTestLogger())

	st := newStation(t, repo, "Vancouver East", 49.281441, -123.055913)

	got, err := repo.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Lat != st.Lat || got.Lng != st.Lng {
		t.Fatalf("expected round-trip lat/lng equal; got=(%v,%v) want=(%v,%v)", got.Lat, got.Lng, st.Lat, st.Lng)
	}

	st.Name = "Vancouver East PS"
	st.UpdatedAt = time.Time{}
	if err := repo.Update(ctx, st); err != nil {
		t.Fatalf("Update: %v", err)
	}
	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 1 || all[0].Name != "Vancouver East PS" {
		t.Fatalf("unexpected stations: %+v", all)
	}

	missing := &domain.Station{ID: uuid.New(), Name: "x"}
	if err := repo.Update(ctx, missing); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestAlertRepo_OneActivePerUser(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewAlertRepo(testPool, newTestLogger())
	user := uuid.New()

	first := newAlert(user, nil)
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, newAlert(user, nil)); !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got: %v", err)
	}

	active, err := repo.GetActiveByUser(ctx, user)
	if err != nil || active.ID != first.ID {
		t.Fatalf("GetActiveByUser: %+v %v", active, err)
	}

	if _, err := repo.Resolve(ctx, first.ID, domain.ResolutionPatch{Resolution: domain.ResolutionCancelled, By: user, At: time.Now().UTC()}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := repo.Create(ctx, newAlert(user, nil)); err != nil {
		t.Fatalf("Create after resolve: %v", err)
	}
}

func TestAlertRepo_ConditionalWrites(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	stations := NewStationRepo(testPool, newTestLogger())
	repo := NewAlertRepo(testPool, newTestLogger())

	st := newStation(t, stations, "Model Town", 28.705, 77.1)
	a := newAlert(uuid.New(), nil)
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.Acknowledge(ctx, a.ID, nil, time.Now().UTC()); !errors.Is(err, e.ErrConflict) {
		t.Fatalf("acknowledge unassigned: expected ErrConflict, got: %v", err)
	}

	officer := uuid.New()
	assigned, err := repo.Assign(ctx, a.ID, domain.AssignmentPatch{
		StationID: st.ID, DistanceM: 120, Officers: []uuid.UUID{officer}, Status: domain.AlertAssigned, At: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if assigned.StationID == nil || *assigned.StationID != st.ID || len(assigned.AssignedOfficers) != 1 {
		t.Fatalf("unexpected assignment: %+v", assigned)
	}

	ackAt := time.Now().UTC().Add(time.Minute).Truncate(time.Microsecond)
	acked, err := repo.Acknowledge(ctx, a.ID, []uuid.UUID{officer}, ackAt)
	if err != nil || acked.Status != domain.AlertInProgress {
		t.Fatalf("Acknowledge: %+v %v", acked, err)
	}
	if !acked.UpdatedAt.Equal(ackAt) {
		t.Fatalf("Acknowledge updated_at: got %v, want %v", acked.UpdatedAt, ackAt)
	}

	mine, err := repo.ListActiveForOfficer(ctx, officer, nil)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListActiveForOfficer by officer: %d %v", len(mine), err)
	}
	byStation, err := repo.ListActiveForOfficer(ctx, uuid.New(), &st.ID)
	if err != nil || len(byStation) != 1 {
		t.Fatalf("ListActiveForOfficer by station: %d %v", len(byStation), err)
	}

	by := uuid.New()
	resolved, err := repo.Resolve(ctx, a.ID, domain.ResolutionPatch{Resolution: domain.ResolutionResolved, By: by, At: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != by || resolved.ResolvedAt == nil {
		t.Fatalf("resolution not recorded: %+v", resolved)
	}

	if _, err := repo.Resolve(ctx, a.ID, domain.ResolutionPatch{Resolution: domain.ResolutionResolved, By: uuid.New(), At: time.Now().UTC()}); !errors.Is(err, e.ErrAlreadyResolved) {
		t.Fatalf("second resolve: expected ErrAlreadyResolved, got: %v", err)
	}
	if _, err := repo.Assign(ctx, a.ID, domain.AssignmentPatch{StationID: st.ID, Status: domain.AlertAssigned, At: time.Now().UTC()}); !errors.Is(err, e.ErrAlreadyResolved) {
		t.Fatalf("assign after resolve: expected ErrAlreadyResolved, got: %v", err)
	}
	if _, err := repo.Assign(ctx, uuid.New(), domain.AssignmentPatch{StationID: st.ID, Status: domain.AlertAssigned, At: time.Now().UTC()}); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("assign missing: expected ErrNotFound, got: %v", err)
	}

	got, err := repo.Get(ctx, a.ID)
	if err != nil || got.ResolvedBy == nil || *got.ResolvedBy != by {
		t.Fatalf("resolved alert mutated: %+v %v", got, err)
	}

	active, err := repo.ListActive(ctx)
	if err != nil || len(active) != 0 {
		t.Fatalf("resolved alert still active: %d %v", len(active), err)
	}
}

func TestMessageRepo_ConcurrentAppendKeepsCursorContract(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	alerts := NewAlertRepo(testPool, newTestLogger())
	repo := NewMessageRepo(testPool, newTestLogger())

	a := newAlert(uuid.New(), nil)
	if err := alerts.Create(ctx, a); err != nil {
		t.Fatalf("Create alert: %v", err)
	}

	const n = 30
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			role := domain.RoleUser
			if i%3 == 0 {
				role = domain.RoleAdmin
			}
			payload, _ := json.Marshal(fmt.Sprintf("msg %d", i))
			msg := &domain.Message{AlertID: a.ID, SenderID: uuid.New(), SenderRole: role, Type: domain.MessageText, Payload: payload}
			if err := repo.Append(ctx, msg); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	first, err := repo.List(ctx, a.ID, domain.ChatCursor{}, 10)
	if err != nil || len(first) != 10 {
		t.Fatalf("first page: %d %v", len(first), err)
	}
	rest, err := repo.List(ctx, a.ID, domain.ChatCursor{Seq: first[len(first)-1].Seq}, 0)
	if err != nil || len(rest) != n-10 {
		t.Fatalf("rest: %d %v", len(rest), err)
	}
	all := append(first, rest...)
	for i := 1; i < len(all); i++ {
		if all[i].Seq <= all[i-1].Seq {
			t.Fatalf("seq not increasing at %d", i)
		}
	}

	admins, err := repo.SendersWithRole(ctx, a.ID, domain.RoleAdmin)
	if err != nil || len(admins) != n/3 {
		t.Fatalf("SendersWithRole: %d %v", len(admins), err)
	}

	after := all[5].CreatedAt
	byTime, err := repo.List(ctx, a.ID, domain.ChatCursor{After: &after}, 0)
	if err != nil {
		t.Fatalf("List by time: %v", err)
	}
	for _, m := range byTime {
		if !m.CreatedAt.After(after) {
			t.Fatalf("message at %v not after cursor %v", m.CreatedAt, after)
		}
	}
}

func TestGuardianRepo_LimitAndDelete(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewGuardianRepo(testPool, newTestLogger())
	user := uuid.New()

	for i := 0; i < domain.MaxGuardiansPerUser; i++ {
		g := &domain.Guardian{UserID: user, Name: "g", Phone: "1", Email: fmt.Sprintf("g%d@example.com", i)}
		if err := repo.Create(ctx, g, domain.MaxGuardiansPerUser); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	extra := &domain.Guardian{UserID: user, Name: "g", Phone: "1", Email: "extra@example.com"}
	if err := repo.Create(ctx, extra, domain.MaxGuardiansPerUser); !errors.Is(err, e.ErrGuardianLimit) {
		t.Fatalf("expected ErrGuardianLimit, got: %v", err)
	}

	list, err := repo.ListByUser(ctx, user)
	if err != nil || len(list) != domain.MaxGuardiansPerUser {
		t.Fatalf("ListByUser: %d %v", len(list), err)
	}

	if err := repo.Delete(ctx, uuid.New(), list[0].ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("delete by other user: expected ErrNotFound, got: %v", err)
	}
	if err := repo.Delete(ctx, user, list[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	dup := &domain.Guardian{UserID: user, Name: "g", Phone: "1", Email: "G1@example.com"}
	if err := repo.Create(ctx, dup, domain.MaxGuardiansPerUser); !errors.Is(err, e.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got: %v", err)
	}
}

func TestUserRepo_GetManyKeepsOrder(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()
	repo := NewUserRepo(testPool, newTestLogger())

	station := uuid.New()
	a := domain.UserProfile{ID: uuid.New(), Name: "Asha", Role: domain.RoleUser}
	b := domain.UserProfile{ID: uuid.New(), Name: "Rao", Role: domain.RolePolice, StationID: &station}
	for _, u := range []domain.UserProfile{a, b} {
		if err := repo.Upsert(ctx, u); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := repo.GetMany(ctx, []uuid.UUID{b.ID, uuid.New(), a.ID})
	if err != nil {
		t.Fatalf("GetMany: %v", err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].StationID == nil || *got[0].StationID != station {
		t.Fatalf("station id lost: %+v", got[0])
	}
	if _, err := repo.Get(ctx, uuid.New()); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
