package ui

import "testing"

func TestSparkline(t *testing.T) {
	if got := sparkline(nil); got != "" {
		t.Fatalf("sparkline(nil) = %q, want empty", got)
	}
	if got := sparkline([]float64{20, 20, 20}); got != "▁▁▁" {
		t.Fatalf("flat sparkline = %q, want ▁▁▁", got)
	}
	if got := sparkline([]float64{10, 20, 30}); got != "▁▅█" {
		t.Fatalf("rising sparkline = %q, want ▁▅█", got)
	}
	if got := sparkline([]float64{30, 10}); got != "█▁" {
		t.Fatalf("falling sparkline = %q, want █▁", got)
	}
}
