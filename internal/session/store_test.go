package session

import (
	"context"
	"testing"
	"time"

	"salaryinsights/internal/errors"
	"salaryinsights/internal/orchestration"
	"salaryinsights/internal/types"
)

type blockingFlows struct {
	release chan struct{}
}

func (b blockingFlows) PredictSalary(ctx context.Context, _ types.PredictSalaryInput) (types.SalaryEstimate, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return types.SalaryEstimate{}, ctx.Err()
	}
	return types.SalaryEstimate{MinSalary: 1, MaxSalary: 2, CurrencyCode: "USD"}, nil
}

func (b blockingFlows) GenerateCoverLetter(context.Context, types.GenerateCoverLetterInput) (types.CoverLetter, error) {
	return types.CoverLetter{}, nil
}

func (b blockingFlows) SuggestSkills(context.Context, types.SuggestSkillsInput) ([]string, error) {
	return nil, nil
}

func newTestStore(flows orchestration.Flows) *Store {
	logger := errors.Discard()
	return NewStore(time.Minute, func() *orchestration.Controller {
		return orchestration.NewController(context.Background(), flows, nil, logger)
	}, logger)
}

func TestGetOrCreate(t *testing.T) {
	store := newTestStore(blockingFlows{release: make(chan struct{})})
	defer store.Close()

	id, first, created := store.GetOrCreate("")
	if !created || id == "" {
		t.Fatalf("Expected a new session, got id=%q created=%v", id, created)
	}

	sameID, second, created := store.GetOrCreate(id)
	if created || sameID != id || second != first {
		t.Error("Known id should return the existing session")
	}

	if _, ok := store.Get("not-a-uuid"); ok {
		t.Error("Malformed ids must not match")
	}
	if _, _, created := store.GetOrCreate("0b7f3a2e-9a4f-4a57-8b3c-3d2f6f6f0c11"); !created {
		t.Error("Unknown ids should get a fresh session")
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", store.Len())
	}
}

func TestCleanupEvictsIdleSessions(t *testing.T) {
	release := make(chan struct{})
	store := newTestStore(blockingFlows{release: release})
	defer store.Close()

	now := time.Now()
	store.now = func() time.Time { return now }

	idleID, _ := store.Create()
	_, busy := store.Create()
	busy.Submit(types.JobProfile{JobRole: "Engineer"})

	now = now.Add(2 * time.Minute)
	if removed := store.Cleanup(); removed != 1 {
		t.Errorf("Expected 1 removed session, got %d", removed)
	}
	if _, ok := store.Get(idleID); ok {
		t.Error("Idle session should be evicted")
	}
	if store.Len() != 1 {
		t.Errorf("Busy session should be kept, got %d sessions", store.Len())
	}

	close(release)
	busy.Wait()
}

func TestCreateEvictsAtSessionLimit(t *testing.T) {
	release := make(chan struct{})
	store := newTestStore(blockingFlows{release: release})
	defer store.Close()
	store.SetMaxSessions(2)

	now := time.Now()
	store.now = func() time.Time { return now }

	_, busy := store.Create()
	busy.Submit(types.JobProfile{JobRole: "Engineer"})
	now = now.Add(time.Second)
	idleID, idle := store.Create()
	now = now.Add(time.Second)

	newID, _ := store.Create()
	if store.Len() != 2 {
		t.Fatalf("Expected the cap of 2 sessions, got %d", store.Len())
	}
	if _, ok := store.Get(idleID); ok {
		t.Error("Idle session should be evicted before a busy older one")
	}
	if _, ok := store.Get(newID); !ok {
		t.Error("New session should be stored")
	}
	idle.Wait()

	// a lower cap evicts down to the limit, busy sessions included
	store.SetMaxSessions(1)
	for i := range 3 {
		now = now.Add(time.Second)
		store.Create()
		if store.Len() != 1 {
			t.Fatalf("Create %d: expected 1 session, got %d", i, store.Len())
		}
	}
	busy.Wait()
	if busy.Snapshot().Busy() {
		t.Error("Evicted busy session should have its flow cancelled")
	}
	close(release)
}

func TestCloseCancelsRunningFlows(t *testing.T) {
	store := newTestStore(blockingFlows{release: make(chan struct{})})

	_, controller := store.Create()
	controller.Submit(types.JobProfile{JobRole: "Engineer"})
	store.Close()
	controller.Wait()

	if store.Len() != 0 {
		t.Errorf("Expected no sessions after Close, got %d", store.Len())
	}
}
