package testutil_test

import (
	"runtime"
	"testing"

	"github.com/mimikastudio/orchestrator/internal/testutil"
)

func TestRequireFFmpeg_SkipsWhenAbsent(t *testing.T) {
	t.Setenv("PATH", "/nonexistent")

	if !captureSkip(func(tb testing.TB) { testutil.RequireFFmpeg(tb) }) {
		t.Error("expected RequireFFmpeg to skip when binary is absent")
	}
}

func TestRequirePython3_SkipsWhenAbsent(t *testing.T) {
	t.Setenv("PATH", "/nonexistent")

	if !captureSkip(func(tb testing.TB) { testutil.RequirePython3(tb) }) {
		t.Error("expected RequirePython3 to skip when binary is absent")
	}
}

func TestRequireEnv_SkipsWhenUnset(t *testing.T) {
	t.Setenv("MIMIKA_TESTUTIL_PROBE_VAR", "")

	if !captureSkip(func(tb testing.TB) { testutil.RequireEnv(tb, "MIMIKA_TESTUTIL_PROBE_VAR") }) {
		t.Error("expected RequireEnv to skip when the variable is unset")
	}
}

// captureSkip runs fn in a fresh goroutine with a stub TB and returns true if
// the function called Skip/Skipf. Because the real testing.T.Skipf calls
// runtime.Goexit(), we run fn in an isolated goroutine so Goexit only
// terminates that goroutine and does not propagate to the parent test.
func captureSkip(fn func(testing.TB)) (skipped bool) {
	stub := &stubTB{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(stub)
	}()
	<-done
	return stub.skipped
}

// stubTB is a minimal testing.TB that records Skip calls and terminates the
// calling goroutine (via runtime.Goexit) exactly as the real testing.T does.
type stubTB struct {
	testing.TB // intentionally nil — only Skip methods are called
	skipped    bool
}

func (s *stubTB) Helper()                 {}
func (s *stubTB) Log(_ ...any)            {}
func (s *stubTB) Logf(_ string, _ ...any) {}

func (s *stubTB) Skip(_ ...any) {
	s.skipped = true
	runtime.Goexit()
}

func (s *stubTB) Skipf(_ string, _ ...any) {
	s.skipped = true
	runtime.Goexit()
}

func (s *stubTB) SkipNow() {
	s.skipped = true
	runtime.Goexit()
}
