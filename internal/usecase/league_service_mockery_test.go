package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sflhq/league-service/internal/domain/league"
	leaguemock "github.com/sflhq/league-service/internal/mocks/domain/league"
)

func TestLeagueService_GetLeague_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)

	service := NewLeagueService(leagueRepo, &sequenceIDGenerator{prefix: "id"}, league.DefaultMaxMembers, 7*24*time.Hour)
	leagueID := "league-1"
	userID := "user-1"

	leagueRepo.
		On("GetLeagueByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{ID: leagueID, Name: "Premier Pals"}, true, nil).
		Once()
	leagueRepo.
		On("GetMembership", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID, userID).
		Return(league.Membership{LeagueID: leagueID, UserID: userID, Role: league.RoleCreator, Status: league.MembershipStatusActive}, true, nil).
		Once()

	got, role, err := service.GetLeague(ctx, userID, leagueID)
	if err != nil {
		t.Fatalf("get league: %v", err)
	}
	if got.ID != leagueID {
		t.Fatalf("unexpected league id: got=%s want=%s", got.ID, leagueID)
	}
	if role != league.RoleCreator {
		t.Fatalf("unexpected role: got=%s want=%s", role, league.RoleCreator)
	}
}

func TestLeagueService_GetLeague_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)

	service := NewLeagueService(leagueRepo, &sequenceIDGenerator{prefix: "id"}, league.DefaultMaxMembers, 7*24*time.Hour)
	leagueID := "missing-league"

	leagueRepo.
		On("GetLeagueByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{}, false, nil).
		Once()

	_, _, err := service.GetLeague(ctx, "user-1", leagueID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
