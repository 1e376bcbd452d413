package ingest

import (
	"testing"
	"time"
)

func TestSerialToTime(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		year   int
		month  time.Month
		day    int
	}{
		{"start of 2023", 44927, 2023, time.January, 1},
		{"start of 2024", 45292, 2024, time.January, 1},
		{"unix epoch", 25569, 1970, time.January, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerialToTime(tt.serial)
			if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
				t.Errorf("SerialToTime(%v) = %v, want %04d-%02d-%02d", tt.serial, got, tt.year, tt.month, tt.day)
			}
		})
	}
}

func TestLooksLikeDateSerial(t *testing.T) {
	tests := []struct {
		n    float64
		want bool
	}{
		{20000, false}, // boundary is exclusive
		{20001, true},
		{44927, true},
		{59999, true},
		{60000, false},
		{123, false},
		{-5, false},
	}

	for _, tt := range tests {
		if got := LooksLikeDateSerial(tt.n); got != tt.want {
			t.Errorf("LooksLikeDateSerial(%v) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestFormatDisplayValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"nil renders empty", nil, ""},
		{"date serial renders as date", float64(44927), "2023/01/01"},
		{"plain number passes through", float64(123.45), float64(123.45)},
		{"small int passes through", 42, 42},
		{"int in serial range renders as date", 45292, "2024/01/01"},
		{"string passes through", "hello", "hello"},
		{"bool passes through", true, true},
		{"time renders as date", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), "2023/06/15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDisplayValue(tt.value); got != tt.want {
				t.Errorf("FormatDisplayValue(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
