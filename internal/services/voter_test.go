package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/votekeep/votekeep/internal/logger"
	"github.com/votekeep/votekeep/internal/models"
	"github.com/votekeep/votekeep/internal/services"
	"github.com/votekeep/votekeep/internal/testutil"
)

// TestRegisterVoter_IssuesAccessCode tests voter registration
func TestRegisterVoter_IssuesAccessCode(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	log := logger.New()
	ctx := context.Background()

	electionID, err := repo.CreateElection(ctx, "Club Election",
		windowStart, windowEnd, models.StatusUpcoming, false)
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}

	svc := services.NewVoterService(log, repo)

	voter, err := svc.RegisterVoter(ctx, int(electionID), "Grace Hall", "grace@example.com")
	if err != nil {
		t.Fatalf("RegisterVoter failed: %v", err)
	}
	if voter.AccessCode == "" {
		t.Error("expected an access code")
	}
	if voter.Status != models.VoterUncast {
		t.Errorf("status = %q, want %q", voter.Status, models.VoterUncast)
	}

	// The code must round-trip back to the same voter
	found, err := svc.GetVoterByAccessCode(ctx, voter.AccessCode)
	if err != nil {
		t.Fatalf("GetVoterByAccessCode failed: %v", err)
	}
	if found.ID != voter.ID {
		t.Errorf("lookup returned voter %d, want %d", found.ID, voter.ID)
	}
}

// TestRegisterVoter_UniqueCodes tests that every registration gets its own code
func TestRegisterVoter_UniqueCodes(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	log := logger.New()
	ctx := context.Background()

	electionID, err := repo.CreateElection(ctx, "Club Election",
		windowStart, windowEnd, models.StatusUpcoming, false)
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}

	svc := services.NewVoterService(log, repo)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		voter, err := svc.RegisterVoter(ctx, int(electionID), "Voter", "")
		if err != nil {
			t.Fatalf("RegisterVoter failed: %v", err)
		}
		if seen[voter.AccessCode] {
			t.Fatalf("duplicate access code %q", voter.AccessCode)
		}
		seen[voter.AccessCode] = true
	}
}

// TestRegisterVoter_Validation tests input checks
func TestRegisterVoter_Validation(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	log := logger.New()
	ctx := context.Background()

	svc := services.NewVoterService(log, repo)

	if _, err := svc.RegisterVoter(ctx, 999, "Grace Hall", ""); err == nil {
		t.Error("expected error for unknown election")
	}

	electionID, err := repo.CreateElection(ctx, "Club Election",
		windowStart, windowEnd, models.StatusUpcoming, false)
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}
	if _, err := svc.RegisterVoter(ctx, int(electionID), "  ", ""); err == nil {
		t.Error("expected error for blank name")
	}
}

// TestListVoters_ScopedToElection tests roster isolation between elections
func TestListVoters_ScopedToElection(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	log := logger.New()
	ctx := context.Background()

	first, err := repo.CreateElection(ctx, "First", windowStart, windowEnd, models.StatusUpcoming, false)
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}
	second, err := repo.CreateElection(ctx, "Second",
		windowStart.Add(48*time.Hour), windowEnd.Add(48*time.Hour), models.StatusUpcoming, false)
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}

	svc := services.NewVoterService(log, repo)
	if _, err := svc.RegisterVoter(ctx, int(first), "Grace Hall", ""); err != nil {
		t.Fatalf("RegisterVoter failed: %v", err)
	}
	if _, err := svc.RegisterVoter(ctx, int(first), "Henry Ford", ""); err != nil {
		t.Fatalf("RegisterVoter failed: %v", err)
	}
	if _, err := svc.RegisterVoter(ctx, int(second), "Iris West", ""); err != nil {
		t.Fatalf("RegisterVoter failed: %v", err)
	}

	voters, err := svc.ListVoters(ctx, int(first))
	if err != nil {
		t.Fatalf("ListVoters failed: %v", err)
	}
	if len(voters) != 2 {
		t.Errorf("expected 2 voters in first election, got %d", len(voters))
	}
}
