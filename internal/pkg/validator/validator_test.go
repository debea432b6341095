package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2026-01-01", "2026-12-31", "2024-02-29"}
	invalid := []string{"2026-13-01", "2026-01-32", "2025-02-29", "01-01-2026", "2026/01/01", "", "yesterday"}
	for _, date := range valid {
		if _, ok := IsValidDate(date); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", date)
		}
	}
	for _, date := range invalid {
		if _, ok := IsValidDate(date); ok {
			t.Errorf("IsValidDate(%q) = true, want false", date)
		}
	}
}

func TestIsValidPayPeriod(t *testing.T) {
	valid := []string{"2026-01", "2026-12", "1999-09"}
	invalid := []string{"2026-00", "2026-13", "2026-1", "2026", "2026-01-01", "26-01", ""}
	for _, period := range valid {
		if !IsValidPayPeriod(period) {
			t.Errorf("IsValidPayPeriod(%q) = false, want true", period)
		}
	}
	for _, period := range invalid {
		if IsValidPayPeriod(period) {
			t.Errorf("IsValidPayPeriod(%q) = true, want false", period)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"pending", "approved", "rejected"}
	if !IsInSlice("approved", slice) {
		t.Error("IsInSlice should find an existing value")
	}
	if IsInSlice("cancelled", slice) {
		t.Error("IsInSlice should not find a missing value")
	}
	if IsInSlice("pending", nil) {
		t.Error("IsInSlice on nil slice should be false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "uid", Message: "is required"},
		{Field: "pay_period", Message: "must be in YYYY-MM format"},
	}

	msg := errs.Error()
	if msg != "uid: is required; pay_period: must be in YYYY-MM format" {
		t.Errorf("unexpected error string: %q", msg)
	}

	m := errs.ToMap()
	if m["uid"] != "is required" || m["pay_period"] != "must be in YYYY-MM format" {
		t.Errorf("unexpected map: %v", m)
	}
}
