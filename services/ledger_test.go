package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"agenda-backend/models"
	"agenda-backend/utils"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"gorm.io/datatypes"
)

func newTestLedger(t *testing.T) (*Ledger, *AvailabilityService) {
	t.Helper()
	db := newTestDB(t)
	availability := NewAvailabilityService(db, nil)
	tokens := utils.NewCancelTokens(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	return NewLedger(db, availability, tokens), availability
}

func TestReserveAndResolve(t *testing.T) {
	ctx := context.Background()
	ledger, availability := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00", "10:00")

	res, err := ledger.Reserve(ctx, p.ID, ReserveInput{
		ServiceID:     svc.ID,
		Date:          "2024-06-01",
		Time:          "9:00",
		CustomerName:  "Bia",
		CustomerPhone: "+55 (11) 99999-0000",
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	b := res.Booking
	if b.Time != "09:00" || b.Date != "2024-06-01" {
		t.Errorf("booking stored as %s %s", b.Date, b.Time)
	}
	if b.CustomerPhone != "5511999990000" {
		t.Errorf("phone stored as %q", b.CustomerPhone)
	}
	if b.ServiceTitle != "Corte" || b.ServiceID == nil || *b.ServiceID != svc.ID {
		t.Errorf("service not copied onto booking: %+v", b)
	}
	if b.ProviderID != p.ID {
		t.Errorf("provider = %s, want %s", b.ProviderID, p.ID)
	}
	if res.CancelToken == "" {
		t.Error("expected a cancel token")
	}

	slots, err := availability.Available(ctx, p.ID, "2024-06-01")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0] != "10:00" {
		t.Errorf("Available = %v, want [10:00]", slots)
	}
}

func TestReserveConflict(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00")

	in := ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "09:00", CustomerName: "Bia", CustomerPhone: "11999990000"}
	if _, err := ledger.Reserve(ctx, p.ID, in); err != nil {
		t.Fatal(err)
	}

	in.CustomerName, in.CustomerPhone = "Caio", "11988887777"
	if _, err := ledger.Reserve(ctx, p.ID, in); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("second Reserve err = %v, want ErrSlotConflict", err)
	}
}

func TestReserveConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00")

	const attempts = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := ledger.Reserve(ctx, p.ID, ReserveInput{
				ServiceID:     svc.ID,
				Date:          "2024-06-01",
				Time:          "09:00",
				CustomerName:  fmt.Sprintf("client %d", i),
				CustomerPhone: fmt.Sprintf("+55119999900%02d", i),
			})
			errs <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("successes = %d, conflicts = %d", ok, conflicts)
	}

	var rows int64
	ledger.db.Model(&models.Booking{}).
		Where("provider_id = ? AND date = ? AND time = ?", p.ID, "2024-06-01", "09:00").
		Count(&rows)
	if rows != 1 {
		t.Fatalf("stored %d bookings for the slot, want 1", rows)
	}
}

func TestReserveRejections(t *testing.T) {
	ctx := context.Background()
	ledger, availability := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	other := seedProvider(t, ledger.db, "bruno")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	foreign := seedService(t, ledger.db, other.ID, "Barba")
	everyDay(t, ledger.db, p.ID, "09:00", "10:00")

	if _, err := availability.SetException(ctx, p.ID, "2024-06-02", false, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := availability.SetException(ctx, p.ID, "2024-06-03", true, []string{"10:00"}); err != nil {
		t.Fatal(err)
	}

	inactive := seedService(t, ledger.db, p.ID, "Escova")
	off := false
	if _, err := NewCatalogService(ledger.db).Update(ctx, p.ID, inactive.ID, ServiceUpdate{IsActive: &off}); err != nil {
		t.Fatal(err)
	}

	base := ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "09:00", CustomerName: "Bia", CustomerPhone: "11999990000"}
	tests := []struct {
		name     string
		provider uuid.UUID
		mutate   func(*ReserveInput)
		want     error
	}{
		{name: "slot not in template", provider: p.ID, mutate: func(in *ReserveInput) { in.Time = "11:00" }, want: ErrValidation},
		{name: "inactive day", provider: p.ID, mutate: func(in *ReserveInput) { in.Date = "2024-06-02" }, want: ErrValidation},
		{name: "blocked slot", provider: p.ID, mutate: func(in *ReserveInput) { in.Date, in.Time = "2024-06-03", "10:00" }, want: ErrValidation},
		{name: "service of another provider", provider: p.ID, mutate: func(in *ReserveInput) { in.ServiceID = foreign.ID }, want: ErrNotFound},
		{name: "inactive service", provider: p.ID, mutate: func(in *ReserveInput) { in.ServiceID = inactive.ID }, want: ErrValidation},
		{name: "unknown provider", provider: uuid.New(), mutate: func(in *ReserveInput) {}, want: ErrNotFound},
		{name: "missing name", provider: p.ID, mutate: func(in *ReserveInput) { in.CustomerName = " " }, want: ErrValidation},
		{name: "bad phone", provider: p.ID, mutate: func(in *ReserveInput) { in.CustomerPhone = "abc" }, want: ErrValidation},
		{name: "bad date", provider: p.ID, mutate: func(in *ReserveInput) { in.Date = "01/06/2024" }, want: ErrValidation},
		{name: "bad time", provider: p.ID, mutate: func(in *ReserveInput) { in.Time = "9am" }, want: ErrValidation},
		{name: "no service", provider: p.ID, mutate: func(in *ReserveInput) { in.ServiceID = uuid.Nil }, want: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := ledger.Reserve(ctx, tt.provider, in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	var rows int64
	ledger.db.Model(&models.Booking{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("rejected reservations stored %d rows", rows)
	}
}

func TestCancelRequiresMatchingPhone(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00")

	res, err := ledger.Reserve(ctx, p.ID, ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "09:00", CustomerName: "Bia", CustomerPhone: "11999990000"})
	if err != nil {
		t.Fatal(err)
	}

	other := seedProvider(t, ledger.db, "bruno")
	if err := ledger.Cancel(ctx, other.ID, res.Booking.ID, "11999990000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel through another provider err = %v, want ErrNotFound", err)
	}
	if err := ledger.Cancel(ctx, p.ID, res.Booking.ID, "11911112222"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cancel with wrong phone err = %v, want ErrNotFound", err)
	}
	if err := ledger.Cancel(ctx, p.ID, res.Booking.ID, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("cancel without phone err = %v, want ErrValidation", err)
	}
	if err := ledger.Cancel(ctx, p.ID, res.Booking.ID, "(11) 99999-0000"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := ledger.Cancel(ctx, p.ID, res.Booking.ID, "11999990000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second cancel err = %v, want ErrNotFound", err)
	}

	if _, err := ledger.Reserve(ctx, p.ID, ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "09:00", CustomerName: "Caio", CustomerPhone: "11988887777"}); err != nil {
		t.Fatalf("slot not freed after cancel: %v", err)
	}
}

func TestCancelWithToken(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00")

	res, err := ledger.Reserve(ctx, p.ID, ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "09:00", CustomerName: "Bia", CustomerPhone: "11999990000"})
	if err != nil {
		t.Fatal(err)
	}

	if err := ledger.CancelWithToken(ctx, "forged"); !errors.Is(err, ErrValidation) {
		t.Fatalf("forged token err = %v, want ErrValidation", err)
	}
	if err := ledger.CancelWithToken(ctx, res.CancelToken); err != nil {
		t.Fatalf("CancelWithToken: %v", err)
	}
	if err := ledger.CancelWithToken(ctx, res.CancelToken); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reused token err = %v, want ErrNotFound", err)
	}
}

func TestLookupScopes(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	ana := seedProvider(t, ledger.db, "ana")
	bruno := seedProvider(t, ledger.db, "bruno")
	for _, p := range []*models.Provider{ana, bruno} {
		svc := seedService(t, ledger.db, p.ID, "Corte")
		everyDay(t, ledger.db, p.ID, "09:00", "10:00")
		for _, slot := range []string{"10:00", "09:00"} {
			if _, err := ledger.Reserve(ctx, p.ID, ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: slot, CustomerName: "Bia", CustomerPhone: "11999990000"}); err != nil {
				t.Fatal(err)
			}
		}
	}

	all, err := ledger.Lookup(ctx, "11999990000", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Fatalf("unscoped lookup returned %d bookings, want 4", len(all))
	}

	scoped, err := ledger.Lookup(ctx, "11 99999-0000", &ana.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 2 {
		t.Fatalf("scoped lookup returned %d bookings, want 2", len(scoped))
	}
	if scoped[0].Time != "09:00" || scoped[1].Time != "10:00" {
		t.Errorf("lookup not ordered by time: %s, %s", scoped[0].Time, scoped[1].Time)
	}
	for _, b := range scoped {
		if b.ProviderID != ana.ID {
			t.Errorf("booking of %s leaked into scoped lookup", b.ProviderID)
		}
	}

	none, err := ledger.Lookup(ctx, "11000000000", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("unknown phone returned %d bookings", len(none))
	}
}

func TestOwnerListingAndPurge(t *testing.T) {
	ctx := context.Background()
	ledger, _ := newTestLedger(t)
	p := seedProvider(t, ledger.db, "ana")
	svc := seedService(t, ledger.db, p.ID, "Corte")
	everyDay(t, ledger.db, p.ID, "09:00")

	dates := []string{"2024-05-30", "2024-05-31", "2024-06-01"}
	ids := map[string]uuid.UUID{}
	for _, d := range dates {
		res, err := ledger.Reserve(ctx, p.ID, ReserveInput{ServiceID: svc.ID, Date: d, Time: "09:00", CustomerName: "Bia", CustomerPhone: "11999990000"})
		if err != nil {
			t.Fatal(err)
		}
		ids[d] = res.Booking.ID
	}

	day, err := ledger.ListForProvider(ctx, p.ID, BookingFilter{Date: "2024-05-31"})
	if err != nil {
		t.Fatal(err)
	}
	if len(day) != 1 || day[0].ID != ids["2024-05-31"] {
		t.Fatalf("date filter returned %v", day)
	}

	if err := ledger.DeleteByOwner(ctx, uuid.New(), ids["2024-06-01"]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner delete err = %v, want ErrNotFound", err)
	}
	if err := ledger.DeleteByOwner(ctx, p.ID, ids["2024-06-01"]); err != nil {
		t.Fatal(err)
	}

	n, err := ledger.PurgeBefore(ctx, "2024-05-31")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("purged %d, want 1", n)
	}

	rest, err := ledger.ListForProvider(ctx, p.ID, BookingFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 || rest[0].Date != "2024-05-31" {
		t.Fatalf("remaining bookings = %v", rest)
	}
}

func TestReserveIgnoresStaleTemplateCache(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cache := newMapCache()
	ledger := NewLedger(db, NewAvailabilityService(db, cache), nil)
	p := seedProvider(t, db, "ana")
	svc := seedService(t, db, p.ID, "Corte")
	everyDay(t, db, p.ID, "10:00")

	cache.Set(ctx, &models.AvailabilityTemplate{
		ProviderID: p.ID,
		Weekdays:   datatypes.JSONSlice[int]{0, 1, 2, 3, 4, 5, 6},
		Slots:      datatypes.JSONSlice[string]{"09:00"},
	})

	in := ReserveInput{ServiceID: svc.ID, Date: "2024-06-01", Time: "10:00", CustomerName: "Bia", CustomerPhone: "11999990000"}
	if _, err := ledger.Reserve(ctx, p.ID, in); err != nil {
		t.Fatalf("reserve of stored slot: %v", err)
	}
	in.Time = "09:00"
	if _, err := ledger.Reserve(ctx, p.ID, in); !errors.Is(err, ErrValidation) {
		t.Fatalf("reserve of cached-only slot err = %v, want ErrValidation", err)
	}
}
