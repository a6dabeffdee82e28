package store

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type change struct {
	value, old int
}

// recorder collects observer calls.
type recorder struct {
	calls []change
}

func (r *recorder) observe(value, old int) error {
	r.calls = append(r.calls, change{value, old})
	return nil
}

func TestNewSelectsVariant(t *testing.T) {
	if _, ok := New(1, nil).(*Plain[int]); !ok {
		t.Errorf("New with nil observer: expected *Plain[int]")
	}

	rec := &recorder{}
	if _, ok := New(1, rec.observe).(*Observed[int]); !ok {
		t.Errorf("New with observer: expected *Observed[int]")
	}

	if _, ok := New(1, Notify[int](nil)).(*Plain[int]); !ok {
		t.Errorf("New with Notify(nil): expected *Plain[int]")
	}
}

func TestStoreReadWrite(t *testing.T) {
	tests := []struct {
		name  string
		store func() Store[int]
	}{
		{"plain", func() Store[int] { return New(7, nil) }},
		{"observed", func() Store[int] { return New(7, (&recorder{}).observe) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.store()

			if got := s.Get(); got != 7 {
				t.Fatalf("initial Get() = %d, want 7", got)
			}

			for _, v := range []int{0, -3, 42, 42} {
				got, err := s.Set(v)
				if err != nil {
					t.Fatalf("Set(%d) error: %v", v, err)
				}
				if got != v {
					t.Errorf("Set(%d) returned %d", v, got)
				}
				if s.Get() != v {
					t.Errorf("Get() after Set(%d) = %d", v, s.Get())
				}
			}
		})
	}
}

func TestObserverCalledWithNewAndOld(t *testing.T) {
	rec := &recorder{}
	s := New(1, rec.observe)

	if len(rec.calls) != 0 {
		t.Fatalf("observer called during construction")
	}

	s.Set(2)
	if len(rec.calls) != 1 || rec.calls[0] != (change{2, 1}) {
		t.Fatalf("calls = %v, want [{2 1}]", rec.calls)
	}

	// Equal values still notify.
	s.Set(2)
	if len(rec.calls) != 2 || rec.calls[1] != (change{2, 2}) {
		t.Fatalf("calls = %v, want [{2 1} {2 2}]", rec.calls)
	}
}

func TestObserverSeesUpdatedValue(t *testing.T) {
	var s Store[string]
	var seen string
	s = New("a", func(value, old string) error {
		seen = s.Get()
		return nil
	})

	s.Set("b")
	if seen != "b" {
		t.Errorf("observer saw %q, want %q", seen, "b")
	}
}

func TestNestedWriteSuppressesNotification(t *testing.T) {
	var s Store[int]
	var calls []change

	s = New(1, func(value, old int) error {
		calls = append(calls, change{value, old})
		if _, err := s.Set(value * 10); err != nil {
			t.Errorf("nested Set error: %v", err)
		}
		if s.Get() != value*10 {
			t.Errorf("nested Set did not update value: got %d", s.Get())
		}
		return nil
	})

	got, err := s.Set(2)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got != 2 {
		t.Errorf("Set returned %d, want 2 (the value passed in)", got)
	}
	if s.Get() != 20 {
		t.Errorf("Get() = %d, want 20 (innermost write wins)", s.Get())
	}
	if len(calls) != 1 || calls[0] != (change{2, 1}) {
		t.Errorf("calls = %v, want [{2 1}]", calls)
	}

	// Next outer write notifies again, with the nested value as old.
	s.Set(3)
	if len(calls) != 2 || calls[1] != (change{3, 20}) {
		t.Errorf("calls = %v, want second call {3 20}", calls)
	}
}

func TestDeeplyRecursiveObserverTerminates(t *testing.T) {
	var s Store[int]
	calls := 0

	s = New(0, func(value, old int) error {
		calls++
		for i := 0; i < 1000; i++ {
			s.Set(s.Get() + 1)
		}
		return nil
	})

	s.Set(1)
	if calls != 1 {
		t.Errorf("observer calls = %d, want 1", calls)
	}
	if s.Get() != 1001 {
		t.Errorf("Get() = %d, want 1001", s.Get())
	}
}

func TestObserverReenabledAfterCompletion(t *testing.T) {
	rec := &recorder{}
	s := New(0, rec.observe).(*Observed[int])

	for i := 1; i <= 3; i++ {
		s.Set(i)
		if !s.Notifying() {
			t.Fatalf("notification still disabled after write %d", i)
		}
	}
	if len(rec.calls) != 3 {
		t.Errorf("observer calls = %d, want 3", len(rec.calls))
	}
}

func TestObserverErrorPropagates(t *testing.T) {
	errBoom := errors.New("boom")
	fail := true
	calls := 0

	s := New(0, func(value, old int) error {
		calls++
		if fail {
			return errBoom
		}
		return nil
	})

	got, err := s.Set(1)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Set error = %v, want %v", err, errBoom)
	}
	if got != 1 {
		t.Errorf("Set returned %d, want 1", got)
	}
	if s.Get() != 1 {
		t.Errorf("value not updated on observer error: got %d", s.Get())
	}
	if !s.(*Observed[int]).Notifying() {
		t.Fatal("notification not re-enabled after observer error")
	}

	fail = false
	if _, err := s.Set(2); err != nil {
		t.Fatalf("Set after failure error: %v", err)
	}
	if calls != 2 {
		t.Errorf("observer calls = %d, want 2", calls)
	}
}

func TestObserverPanicReenables(t *testing.T) {
	calls := 0
	s := New(0, func(value, old int) error {
		calls++
		if value == 1 {
			panic("observer panic")
		}
		return nil
	})

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		s.Set(1)
	}()

	if !s.(*Observed[int]).Notifying() {
		t.Fatal("notification not re-enabled after panic")
	}

	s.Set(2)
	if calls != 2 {
		t.Errorf("observer calls = %d, want 2", calls)
	}
}

func TestNestedWriteErrorAfterSuppression(t *testing.T) {
	errBoom := errors.New("boom")
	var s Store[int]

	s = New(0, func(value, old int) error {
		s.Set(value + 1)
		return errBoom
	})

	if _, err := s.Set(1); !errors.Is(err, errBoom) {
		t.Fatalf("Set error = %v, want %v", err, errBoom)
	}
	if s.Get() != 2 {
		t.Errorf("Get() = %d, want 2", s.Get())
	}
}

func TestStoresAreIndependent(t *testing.T) {
	var a, b Store[int]
	aCalls, bCalls := 0, 0

	b = New(0, func(value, old int) error {
		bCalls++
		a.Set(value)
		return nil
	})
	a = New(0, func(value, old int) error {
		aCalls++
		b.Set(value + 1)
		return nil
	})

	// a notifies, b notifies from inside a's observer, and b's write back to
	// a is suppressed because a's observer is still running.
	a.Set(1)
	if aCalls != 1 || bCalls != 1 {
		t.Errorf("calls a=%d b=%d, want 1 and 1", aCalls, bCalls)
	}
	if a.Get() != 2 || b.Get() != 2 {
		t.Errorf("values a=%d b=%d, want 2 and 2", a.Get(), b.Get())
	}
}

func TestPlainNeverNotifies(t *testing.T) {
	s := New([]string{"x"}, nil)

	got, err := s.Set([]string{"y", "z"})
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if len(got) != 2 || len(s.Get()) != 2 {
		t.Errorf("Set/Get mismatch: %v / %v", got, s.Get())
	}
}

func TestSuppressedNotificationIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var s Store[int]
	s = New(0, func(value, old int) error {
		s.Set(value + 1)
		return nil
	}, WithName("counter"), WithLogger(logger))

	s.Set(1)

	out := buf.String()
	if !strings.Contains(out, "notification suppressed") {
		t.Errorf("expected suppression log, got %q", out)
	}
	if !strings.Contains(out, "store=counter") {
		t.Errorf("expected store name in log, got %q", out)
	}
	if got := s.(*Observed[int]).Name(); got != "counter" {
		t.Errorf("Name() = %q, want %q", got, "counter")
	}
}
