// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"
	"time"
)

func TestParseNullInt64(t *testing.T) {
	tests := []struct {
		in        string
		wantValid bool
		wantVal   int64
	}{
		{"", false, 0},
		{"0", false, 0},
		{"42", true, 42},
		{"-7", true, -7},
		{"abc", false, 0},
		{"4.5", false, 0},
	}
	for _, tt := range tests {
		got := ParseNullInt64(tt.in)
		if got.Valid != tt.wantValid || got.Int64 != tt.wantVal {
			t.Errorf("ParseNullInt64(%q) = %+v, want valid=%v val=%d", tt.in, got, tt.wantValid, tt.wantVal)
		}
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Error("empty string must be invalid")
	}
	if got := NullStringFromValue("x"); !got.Valid || got.String != "x" {
		t.Errorf("NullStringFromValue(x) = %+v", got)
	}
}

func TestNullInt64FromValue(t *testing.T) {
	if got := NullInt64FromValue(9); !got.Valid || got.Int64 != 9 {
		t.Errorf("NullInt64FromValue(9) = %+v", got)
	}
}

func TestNullTimeFromValue(t *testing.T) {
	if got := NullTimeFromValue(time.Time{}); got.Valid {
		t.Error("zero time must be invalid")
	}
	now := time.Now()
	if got := NullTimeFromValue(now); !got.Valid || !got.Time.Equal(now) {
		t.Errorf("NullTimeFromValue(now) = %+v", got)
	}
}
