// Package usecasetest builds an in-process organization for use case tests:
// one tenant with a small catalog, a fixed clock and default policy.
package usecasetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/memory"
	configService "github.com/m04kA/SMC-AppointmentService/internal/service/config"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

const (
	OrgID = "org-1"

	StaffA        = "staff-a"   // monday 09:00-17:00
	StaffB        = "staff-b"   // monday 09:00-13:00, 14:00-18:00
	StaffInactive = "staff-off" // monday 09:00-17:00, inactive

	ServiceX        = "svc-x"     // 45 min, 30.00
	ServiceShort    = "svc-short" // 30 min, 20.00
	ServiceInactive = "svc-off"   // inactive
)

var (
	// Monday 2026-03-02, the day all working hours are defined for
	Monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Now sunday noon, the day before Monday
	Now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

// Clock is a settable time provider
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Fixture is one tenant in an in-process store
type Fixture struct {
	Store   *memory.Store
	Configs *configService.Service
	Clock   *Clock
	Log     *logger.Logger
	Ctx     context.Context
}

// New seeds the catalog with granularity 15 and the clock at Now.
func New(t testing.TB) *Fixture {
	t.Helper()

	clock := &Clock{now: Now}
	store := memory.NewStore(memory.WithClock(clock.Now))

	require.NoError(t, store.ApplySeed(&memory.Seed{
		Organizations: []memory.SeedOrganization{{
			ID: OrgID,
			Services: []memory.SeedService{
				{ID: ServiceX, Name: "Haircut", DurationMinutes: 45, Price: 30},
				{ID: ServiceShort, Name: "Beard trim", DurationMinutes: 30, Price: 20},
				{ID: ServiceInactive, Name: "Perm", DurationMinutes: 90, Price: 80, Active: boolPtr(false)},
			},
			Staff: []memory.SeedStaff{
				{ID: StaffA, Name: "Anna", Hours: map[string][]string{"monday": {"09:00-17:00"}}},
				{ID: StaffB, Name: "Boris", Hours: map[string][]string{"monday": {"09:00-13:00", "14:00-18:00"}}},
				{ID: StaffInactive, Name: "Vera", Active: boolPtr(false), Hours: map[string][]string{"monday": {"09:00-17:00"}}},
			},
		}},
	}))

	log := logger.Nop()
	return &Fixture{
		Store:   store,
		Configs: configService.NewService(store.Configs(), domain.DefaultSlotGranularityMinutes, log),
		Clock:   clock,
		Log:     log,
		Ctx:     tenant.WithOrganization(context.Background(), OrgID),
	}
}

// SetPolicy stores a scheduling policy for the tenant
func (f *Fixture) SetPolicy(t testing.TB, config domain.SchedulingConfig) {
	t.Helper()
	_, err := f.Store.Configs().Upsert(f.Ctx, &config)
	require.NoError(t, err)
}

// ActiveBookings returns every pending/confirmed booking of the tenant
func (f *Fixture) ActiveBookings(t testing.TB) []*domain.Booking {
	t.Helper()
	bookings, err := f.Store.Bookings().List(f.Ctx, domain.BookingsFilter{ActiveOnly: true})
	require.NoError(t, err)
	return bookings
}

// AssertNoOverlap fails if two active bookings of one staff member on one date overlap
func (f *Fixture) AssertNoOverlap(t testing.TB) {
	t.Helper()
	bookings := f.ActiveBookings(t)
	for i, a := range bookings {
		for _, b := range bookings[i+1:] {
			if a.StaffID == b.StaffID && domain.SameDate(a.Date, b.Date) && a.Range().Overlaps(b.Range()) {
				t.Fatalf("bookings %s (%s) and %s (%s) of staff %s overlap", a.ID, a.Range(), b.ID, b.Range(), a.StaffID)
			}
		}
	}
}

func boolPtr(v bool) *bool {
	return &v
}
