package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	// Test is about appending two values in reverse order and checking that everything is
	// as expected at every step of the way.

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}

	h.Append(d1, v1)
	if h.Len() != 1 {
		t.Errorf("Append(d1, v1).Len() = %v want 1", h.Len())
	}

	h.Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}

	if h.days[1] != d1 {
		t.Errorf("history[1].day = %v want %v", h.days[0], d1)
	}
	if h.days[0] != d2 {
		t.Errorf("history[0].day = %v want %v", h.days[1], d2)
	}
	if h.values[1] != v1 {
		t.Errorf("history[1].value = %v want %v", h.values[0], v1)
	}
	if h.values[0] != v2 {
		t.Errorf("history[0].value = %v want %v", h.values[1], v2)
	}

}

func TestValueAsOf(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 7, 1), 100)
	h.Append(New(2025, 7, 3), 110)

	tests := []struct {
		name  string
		on    Date
		want  float64
		found bool
	}{
		{name: "exact date", on: New(2025, 7, 1), want: 100, found: true},
		{name: "between points", on: New(2025, 7, 2), want: 100, found: true},
		{name: "after last point", on: New(2025, 7, 10), want: 110, found: true},
		{name: "before first point", on: New(2025, 6, 30), found: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, found := h.ValueAsOf(tc.on)
			if found != tc.found {
				t.Fatalf("ValueAsOf(%v) found = %v want %v", tc.on, found, tc.found)
			}
			if found && got != tc.want {
				t.Errorf("ValueAsOf(%v) = %v want %v", tc.on, got, tc.want)
			}
		})
	}
}

func TestAppendOverwrites(t *testing.T) {
	h := new(History[float64])
	h.Append(New(2025, 7, 1), 100)
	h.Append(New(2025, 7, 1), 105)

	if h.Len() != 1 {
		t.Fatalf("Len() = %v want 1", h.Len())
	}
	if v, _ := h.Get(New(2025, 7, 1)); v != 105 {
		t.Errorf("Get() = %v want 105", v)
	}
}
