package services

import (
	"reflect"
	"testing"
	"time"

	"agenda-backend/models"

	"github.com/google/uuid"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestResolveSlots(t *testing.T) {
	provider := uuid.New()
	other := uuid.New()
	saturday := "2024-06-01"
	monday := "2024-06-03"

	weekdays := &models.AvailabilityTemplate{
		ProviderID: provider,
		Weekdays:   []int{0, 1, 2, 3, 4},
		Slots:      []string{"09:00", "10:00", "11:00"},
	}
	allWeek := &models.AvailabilityTemplate{
		ProviderID: provider,
		Weekdays:   []int{0, 1, 2, 3, 4, 5, 6},
		Slots:      []string{"09:00", "10:00", "11:00"},
	}

	tests := []struct {
		name string
		date string
		in   DayInput
		want []string
	}{
		{
			name: "weekday not in template",
			date: saturday,
			in:   DayInput{Template: weekdays},
			want: []string{},
		},
		{
			name: "booked slot removed",
			date: saturday,
			in: DayInput{
				Template: &models.AvailabilityTemplate{Weekdays: []int{0, 1, 2, 3, 4, 5, 6}, Slots: []string{"09:00", "10:00"}},
				Bookings: []models.Booking{{ProviderID: provider, Date: saturday, Time: "09:00"}},
			},
			want: []string{"10:00"},
		},
		{
			name: "inactive day",
			date: monday,
			in: DayInput{
				Template:  allWeek,
				Exception: &models.DateException{ProviderID: provider, Date: monday, Active: false},
			},
			want: []string{},
		},
		{
			name: "blocked slot removed",
			date: monday,
			in: DayInput{
				Template:  allWeek,
				Exception: &models.DateException{ProviderID: provider, Date: monday, Active: true, BlockedSlots: []string{"10:00"}},
			},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "no template",
			date: monday,
			in:   DayInput{},
			want: []string{},
		},
		{
			name: "unsorted duplicated labels",
			date: monday,
			in: DayInput{
				Template: &models.AvailabilityTemplate{Weekdays: []int{0}, Slots: []string{"14:00", "9:00", "09:00", "10:30"}},
			},
			want: []string{"09:00", "10:30", "14:00"},
		},
		{
			name: "exception for another date ignored",
			date: monday,
			in: DayInput{
				Template:  allWeek,
				Exception: &models.DateException{Date: "2024-06-04", Active: false},
			},
			want: []string{"09:00", "10:00", "11:00"},
		},
		{
			name: "bookings of other providers and dates ignored",
			date: monday,
			in: DayInput{
				Template: allWeek,
				Bookings: []models.Booking{
					{ProviderID: other, Date: monday, Time: "09:00"},
					{ProviderID: provider, Date: saturday, Time: "10:00"},
					{ProviderID: provider, Date: monday, Time: "11:00"},
				},
			},
			want: []string{"09:00", "10:00"},
		},
		{
			name: "every slot booked",
			date: monday,
			in: DayInput{
				Template: &models.AvailabilityTemplate{Weekdays: []int{0}, Slots: []string{"09:00"}},
				Bookings: []models.Booking{{ProviderID: provider, Date: monday, Time: "09:00"}},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.ProviderID = provider
			tt.in.Date = mustDate(t, tt.date)
			got := ResolveSlots(tt.in)
			if got == nil {
				t.Fatal("got nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveSlotsIsPure(t *testing.T) {
	tpl := &models.AvailabilityTemplate{Weekdays: []int{0}, Slots: []string{"10:00", "09:00"}}
	in := DayInput{Date: mustDate(t, "2024-06-03"), Template: tpl}

	first := ResolveSlots(in)
	second := ResolveSlots(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %v vs %v", first, second)
	}
	if tpl.Slots[0] != "10:00" {
		t.Fatalf("template mutated: %v", tpl.Slots)
	}
}
