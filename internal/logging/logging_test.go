package logging

import "testing"

func TestNew(t *testing.T) {
	for _, debug := range []bool{true, false} {
		log, err := New(debug)
		if err != nil {
			t.Fatalf("New(%v) failed: %v", debug, err)
		}
		if log == nil {
			t.Fatalf("New(%v) returned nil logger", debug)
		}
		if got := log.Core().Enabled(-1); got != debug {
			t.Errorf("New(%v): debug level enabled = %v", debug, got)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
}
