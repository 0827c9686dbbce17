package domain

import (
	"testing"
	"time"
)

func TestClampDayToMonth_February31_NonLeap(t *testing.T) {
	result := ClampDayToMonth(2025, time.February, 31)
	expected := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestClampDayToMonth_February31_LeapYear(t *testing.T) {
	result := ClampDayToMonth(2024, time.February, 31)
	expected := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestClampDayToMonth_NormalDay(t *testing.T) {
	result := ClampDayToMonth(2025, time.March, 15)
	expected := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestClampDayToMonth_ZeroDayClampsToFirst(t *testing.T) {
	result := ClampDayToMonth(2025, time.March, 0)
	expected := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !result.Equal(expected) {
		t.Errorf("Expected %v, got %v", expected, result)
	}
}

func TestOccurrences_Monthly(t *testing.T) {
	c := &Commitment{Frequency: FrequencyMonthly, DueDay: 10}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	dates := c.Occurrences(from, to)
	if len(dates) != 3 {
		t.Fatalf("Expected 3 occurrences, got %d", len(dates))
	}
	if dates[0].Day() != 10 || dates[0].Month() != time.January {
		t.Errorf("Expected Jan 10, got %v", dates[0])
	}
	if dates[2].Month() != time.March {
		t.Errorf("Expected March for last occurrence, got %v", dates[2])
	}
}

func TestOccurrences_MonthlyClampsShortMonths(t *testing.T) {
	c := &Commitment{Frequency: FrequencyMonthly, DueDay: 31}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	dates := c.Occurrences(from, to)
	if len(dates) != 3 {
		t.Fatalf("Expected 3 occurrences, got %d", len(dates))
	}
	// February clamps to 28 in a non-leap year.
	if dates[1].Day() != 28 || dates[1].Month() != time.February {
		t.Errorf("Expected Feb 28, got %v", dates[1])
	}
}

func TestOccurrences_QuarterlyCrossesYearBoundary(t *testing.T) {
	c := &Commitment{Frequency: FrequencyQuarterly, DueDay: 15}

	from := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	dates := c.Occurrences(from, to)
	if len(dates) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d: %v", len(dates), dates)
	}
	if dates[0].Month() != time.November || dates[0].Year() != 2025 {
		t.Errorf("Expected Nov 2025, got %v", dates[0])
	}
	if dates[1].Month() != time.February || dates[1].Year() != 2026 {
		t.Errorf("Expected Feb 2026, got %v", dates[1])
	}
}

func TestOccurrences_Annual(t *testing.T) {
	c := &Commitment{Frequency: FrequencyAnnual, DueDay: 1}

	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC)

	dates := c.Occurrences(from, to)
	if len(dates) != 3 {
		t.Fatalf("Expected 3 occurrences, got %d", len(dates))
	}
}

func TestOccurrences_Weekly(t *testing.T) {
	weekday := time.Friday
	c := &Commitment{Frequency: FrequencyWeekly, Weekday: &weekday}

	// June 2025: Fridays are 6, 13, 20, 27.
	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	dates := c.Occurrences(from, to)
	if len(dates) != 4 {
		t.Fatalf("Expected 4 occurrences, got %d", len(dates))
	}
	for _, d := range dates {
		if d.Weekday() != time.Friday {
			t.Errorf("Expected Friday, got %v on %v", d.Weekday(), d)
		}
	}
}

func TestOccurrences_Biweekly(t *testing.T) {
	weekday := time.Monday
	c := &Commitment{Frequency: FrequencyBiweekly, Weekday: &weekday}

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)

	// Mondays in June 2025: 2, 9, 16, 23, 30. Biweekly from the 2nd
	// yields 2, 16, 30.
	dates := c.Occurrences(from, to)
	if len(dates) != 3 {
		t.Fatalf("Expected 3 occurrences, got %d", len(dates))
	}
}

func TestOccurrences_EmptyWindow(t *testing.T) {
	c := &Commitment{Frequency: FrequencyMonthly, DueDay: 10}

	from := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	if dates := c.Occurrences(from, to); len(dates) != 0 {
		t.Errorf("Expected no occurrences, got %d", len(dates))
	}
}

func TestOccurrences_InvertedWindow(t *testing.T) {
	c := &Commitment{Frequency: FrequencyMonthly, DueDay: 10}

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	if dates := c.Occurrences(from, from.AddDate(0, -1, 0)); dates != nil {
		t.Errorf("Expected nil for inverted window, got %v", dates)
	}
}

func TestFrequencyIsValid(t *testing.T) {
	all := []CommitmentFrequency{
		FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual,
	}
	for _, f := range all {
		if !f.IsValid() {
			t.Errorf("Expected %s to be valid", f)
		}
	}
	if CommitmentFrequency("daily").IsValid() {
		t.Error("Expected 'daily' to be invalid")
	}
}
