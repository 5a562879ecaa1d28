package scheduler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(filepath.Join(t.TempDir(), "schedule.json"))
}

func i64(v int64) *int64   { return &v }
func str(v string) *string { return &v }

// ─── AddJob ────────────────────────────────────────────────────────────────

func TestAddJob_Every(t *testing.T) {
	s := newTestService(t)
	job, err := s.AddJob("hourly", Schedule{Kind: "every", EveryMs: i64(3600_000)},
		Payload{Message: "tick", Published: true}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.ID == "" || !job.Enabled {
		t.Errorf("job not initialized: %+v", job)
	}
	if job.State.NextRunAtMs == nil {
		t.Error("next run not computed")
	}
}

func TestAddJob_At(t *testing.T) {
	s := newTestService(t)
	at := time.Now().Add(time.Hour).UnixMilli()
	job, err := s.AddJob("once", Schedule{Kind: "at", AtMs: i64(at)},
		Payload{Message: "launch"}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !job.DeleteAfterRun {
		t.Error("deleteAfterRun not recorded")
	}
	if job.State.NextRunAtMs == nil || *job.State.NextRunAtMs != at {
		t.Errorf("next run should equal the timestamp, got %v", job.State.NextRunAtMs)
	}
}

func TestAddJob_Cron(t *testing.T) {
	s := newTestService(t)
	job, err := s.AddJob("morning", Schedule{Kind: "cron", Expr: str("0 9 * * *")},
		Payload{Message: "good morning"}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.State.NextRunAtMs == nil {
		t.Error("cron next run not computed")
	}
}

func TestAddJob_Rejections(t *testing.T) {
	s := newTestService(t)
	cases := []struct {
		name    string
		sched   Schedule
		payload Payload
	}{
		{"unknown kind", Schedule{Kind: "weekly"}, Payload{Message: "x"}},
		{"every without interval", Schedule{Kind: "every"}, Payload{Message: "x"}},
		{"every non-positive", Schedule{Kind: "every", EveryMs: i64(0)}, Payload{Message: "x"}},
		{"cron without expr", Schedule{Kind: "cron"}, Payload{Message: "x"}},
		{"at without timestamp", Schedule{Kind: "at"}, Payload{Message: "x"}},
		{"empty payload", Schedule{Kind: "every", EveryMs: i64(1000)}, Payload{}},
	}
	for _, tc := range cases {
		if _, err := s.AddJob(tc.name, tc.sched, tc.payload, false); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestAddJob_ImageOnlyPayloadAccepted(t *testing.T) {
	s := newTestService(t)
	_, err := s.AddJob("photo", Schedule{Kind: "every", EveryMs: i64(1000)},
		Payload{ImageURL: "https://example.com/a.png"}, false)
	if err != nil {
		t.Errorf("image-only payload should be valid: %v", err)
	}
}

// ─── List / remove / enable ────────────────────────────────────────────────

func TestListJobs_SortedByNextRun(t *testing.T) {
	s := newTestService(t)
	later := time.Now().Add(2 * time.Hour).UnixMilli()
	sooner := time.Now().Add(time.Hour).UnixMilli()
	s.AddJob("later", Schedule{Kind: "at", AtMs: i64(later)}, Payload{Message: "b"}, false)
	s.AddJob("sooner", Schedule{Kind: "at", AtMs: i64(sooner)}, Payload{Message: "a"}, false)

	jobs := s.ListJobs(false)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Name != "sooner" || jobs[1].Name != "later" {
		t.Errorf("jobs not sorted by next run: %s, %s", jobs[0].Name, jobs[1].Name)
	}
}

func TestListJobs_HidesDisabledByDefault(t *testing.T) {
	s := newTestService(t)
	job, _ := s.AddJob("j", Schedule{Kind: "every", EveryMs: i64(1000)},
		Payload{Message: "x"}, false)
	s.EnableJob(job.ID, false)

	if got := s.ListJobs(false); len(got) != 0 {
		t.Errorf("disabled job visible without includeDisabled: %v", got)
	}
	if got := s.ListJobs(true); len(got) != 1 {
		t.Errorf("disabled job hidden with includeDisabled: %v", got)
	}
}

func TestRemoveJob(t *testing.T) {
	s := newTestService(t)
	job, _ := s.AddJob("j", Schedule{Kind: "every", EveryMs: i64(1000)},
		Payload{Message: "x"}, false)

	if !s.RemoveJob(job.ID) {
		t.Error("expected removal to succeed")
	}
	if s.RemoveJob(job.ID) {
		t.Error("second removal should report not found")
	}
	if got := s.ListJobs(true); len(got) != 0 {
		t.Errorf("job still listed after removal: %v", got)
	}
}

func TestEnableJob_Toggle(t *testing.T) {
	s := newTestService(t)
	job, _ := s.AddJob("j", Schedule{Kind: "every", EveryMs: i64(1000)},
		Payload{Message: "x"}, false)

	disabled, ok := s.EnableJob(job.ID, false)
	if !ok || disabled.Enabled {
		t.Fatalf("disable failed: %+v", disabled)
	}
	if disabled.State.NextRunAtMs != nil {
		t.Error("disabled job keeps a next run time")
	}

	enabled, ok := s.EnableJob(job.ID, true)
	if !ok || !enabled.Enabled {
		t.Fatalf("enable failed: %+v", enabled)
	}
	if enabled.State.NextRunAtMs == nil {
		t.Error("re-enabled job has no next run time")
	}

	if _, ok := s.EnableJob("missing", true); ok {
		t.Error("enable on unknown id should report not found")
	}
}

// ─── Persistence ───────────────────────────────────────────────────────────

func TestPersistence_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")

	s1 := NewService(path)
	job, _ := s1.AddJob("persisted", Schedule{Kind: "every", EveryMs: i64(60_000)},
		Payload{Message: "hello", Link: "https://example.com"}, false)

	s2 := NewService(path)
	jobs := s2.ListJobs(true)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after reload, got %d", len(jobs))
	}
	if jobs[0].ID != job.ID || jobs[0].Payload.Link != "https://example.com" {
		t.Errorf("job not round-tripped: %+v", jobs[0])
	}
}

func TestPersistence_StoreFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.json")
	s := NewService(path)
	s.AddJob("j", Schedule{Kind: "every", EveryMs: i64(1000)}, Payload{Message: "x"}, false)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("store file not written: %v", err)
	}
	var st jobStore
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("store file is not valid JSON: %v", err)
	}
	if st.Version != 1 {
		t.Errorf("expected store version 1, got %d", st.Version)
	}
}

func TestPersistence_MissingFileStartsEmpty(t *testing.T) {
	s := NewService(filepath.Join(t.TempDir(), "nope", "schedule.json"))
	if got := s.ListJobs(true); len(got) != 0 {
		t.Errorf("expected empty store, got %v", got)
	}
}

// ─── Execution ─────────────────────────────────────────────────────────────

func TestRunJob_InvokesPublishAndRecordsState(t *testing.T) {
	s := newTestService(t)
	var published Job
	s.SetPublish(func(_ context.Context, job Job) (string, error) {
		published = job
		return "page1_post9", nil
	})
	job, _ := s.AddJob("manual", Schedule{Kind: "every", EveryMs: i64(3600_000)},
		Payload{Message: "run me"}, false)

	if !s.RunJob(context.Background(), job.ID, false) {
		t.Fatal("expected run to succeed")
	}
	if published.Payload.Message != "run me" {
		t.Errorf("publish got wrong payload: %+v", published.Payload)
	}

	after := s.ListJobs(true)[0]
	if after.State.LastStatus == nil || *after.State.LastStatus != "ok" {
		t.Errorf("last status not recorded: %+v", after.State)
	}
	if after.State.LastPostID == nil || *after.State.LastPostID != "page1_post9" {
		t.Errorf("post id not recorded: %+v", after.State)
	}
	if after.State.LastRunAtMs == nil {
		t.Error("last run time not recorded")
	}
}

func TestRunJob_PublishErrorRecorded(t *testing.T) {
	s := newTestService(t)
	s.SetPublish(func(_ context.Context, _ Job) (string, error) {
		return "", context.DeadlineExceeded
	})
	job, _ := s.AddJob("failing", Schedule{Kind: "every", EveryMs: i64(3600_000)},
		Payload{Message: "x"}, false)

	s.RunJob(context.Background(), job.ID, false)

	after := s.ListJobs(true)[0]
	if after.State.LastStatus == nil || *after.State.LastStatus != "error" {
		t.Errorf("error status not recorded: %+v", after.State)
	}
	if after.State.LastError == nil {
		t.Error("error message not recorded")
	}
}

func TestRunJob_DisabledNeedsForce(t *testing.T) {
	s := newTestService(t)
	ran := false
	s.SetPublish(func(_ context.Context, _ Job) (string, error) {
		ran = true
		return "id", nil
	})
	job, _ := s.AddJob("off", Schedule{Kind: "every", EveryMs: i64(1000)},
		Payload{Message: "x"}, false)
	s.EnableJob(job.ID, false)

	if s.RunJob(context.Background(), job.ID, false) {
		t.Error("disabled job ran without force")
	}
	if ran {
		t.Error("publish invoked for disabled job")
	}
	if !s.RunJob(context.Background(), job.ID, true) {
		t.Error("force run should succeed")
	}
	if !ran {
		t.Error("publish not invoked on force run")
	}
}

func TestRunJob_AtJobDeleteAfterRun(t *testing.T) {
	s := newTestService(t)
	s.SetPublish(func(_ context.Context, _ Job) (string, error) { return "id", nil })
	at := time.Now().Add(time.Hour).UnixMilli()
	job, _ := s.AddJob("once", Schedule{Kind: "at", AtMs: i64(at)},
		Payload{Message: "x"}, true)

	s.RunJob(context.Background(), job.ID, true)

	if got := s.ListJobs(true); len(got) != 0 {
		t.Errorf("one-shot job not deleted after run: %v", got)
	}
}

func TestRunJob_AtJobDisablesWithoutDelete(t *testing.T) {
	s := newTestService(t)
	s.SetPublish(func(_ context.Context, _ Job) (string, error) { return "id", nil })
	at := time.Now().Add(time.Hour).UnixMilli()
	job, _ := s.AddJob("once", Schedule{Kind: "at", AtMs: i64(at)},
		Payload{Message: "x"}, false)

	s.RunJob(context.Background(), job.ID, true)

	jobs := s.ListJobs(true)
	if len(jobs) != 1 || jobs[0].Enabled {
		t.Errorf("one-shot job should stay, disabled: %v", jobs)
	}
}

func TestStart_FiresEveryTimer(t *testing.T) {
	s := newTestService(t)
	fired := make(chan Job, 1)
	s.SetPublish(func(_ context.Context, job Job) (string, error) {
		select {
		case fired <- job:
		default:
		}
		return "id", nil
	})
	s.AddJob("fast", Schedule{Kind: "every", EveryMs: i64(20)},
		Payload{Message: "tick"}, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case job := <-fired:
		if job.Payload.Message != "tick" {
			t.Errorf("unexpected payload: %+v", job.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Error("timer never fired")
	}
	cancel()
	<-done
}

// ─── Next-run computation ──────────────────────────────────────────────────

func TestComputeNextRun(t *testing.T) {
	now := time.Now().UnixMilli()

	if got := computeNextRun(Schedule{Kind: "every", EveryMs: i64(5000)}, now); got == nil || *got != now+5000 {
		t.Errorf("every: got %v", got)
	}

	future := now + 60_000
	if got := computeNextRun(Schedule{Kind: "at", AtMs: i64(future)}, now); got == nil || *got != future {
		t.Errorf("at future: got %v", got)
	}
	if got := computeNextRun(Schedule{Kind: "at", AtMs: i64(now - 1)}, now); got != nil {
		t.Errorf("at past should have no next run, got %v", *got)
	}

	if got := computeNextRun(Schedule{Kind: "cron", Expr: str("*/5 * * * *")}, now); got == nil || *got <= now {
		t.Errorf("cron: got %v", got)
	}
	if got := computeNextRun(Schedule{Kind: "cron", Expr: str("not a cron")}, now); got != nil {
		t.Errorf("bad cron should have no next run, got %v", *got)
	}
}

func TestJobLocation(t *testing.T) {
	if loc := jobLocation(Schedule{}); loc != time.Local {
		t.Errorf("expected local default, got %v", loc)
	}
	if loc := jobLocation(Schedule{TZ: str("UTC")}); loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v", loc)
	}
	if loc := jobLocation(Schedule{TZ: str("Not/AZone")}); loc != time.Local {
		t.Errorf("bad zone should fall back to local, got %v", loc)
	}
}
