package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sflhq/league-service/internal/domain/league"
	"github.com/sflhq/league-service/internal/infrastructure/repository/memory"
)

type sequenceIDGenerator struct {
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func newLeagueServiceForTest(maxMembers int) (*LeagueService, *memory.LeagueRepository) {
	repo := memory.NewLeagueRepository()
	service := NewLeagueService(repo, &sequenceIDGenerator{prefix: "id"}, maxMembers, 7*24*time.Hour)
	return service, repo
}

func TestLeagueService_CreateLeague_EnrollsCreator(t *testing.T) {
	service, repo := newLeagueServiceForTest(20)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	description := "  weekend league  "
	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{
		UserID:      "user-1",
		Name:        "  Premier Pals  ",
		Description: &description,
	})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if created.Name != "Premier Pals" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.Description == nil || *created.Description != "weekend league" {
		t.Fatalf("expected trimmed description, got %v", created.Description)
	}
	if created.CreatorID != "user-1" {
		t.Fatalf("expected creator user-1, got %s", created.CreatorID)
	}
	if created.SeasonNumber != 1 {
		t.Fatalf("expected default season 1, got %d", created.SeasonNumber)
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps %v, got created=%v updated=%v", now, created.CreatedAt, created.UpdatedAt)
	}

	members, err := repo.ListActiveMembers(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected creator to be sole member, got %d members", len(members))
	}
	if members[0].UserID != "user-1" || members[0].Role != league.RoleCreator {
		t.Fatalf("expected creator membership, got user=%s role=%s", members[0].UserID, members[0].Role)
	}
	if members[0].Status != league.MembershipStatusActive {
		t.Fatalf("expected active creator membership, got %s", members[0].Status)
	}
}

func TestLeagueService_CreateLeague_RequiresName(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	_, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_JoinLeague_AddsActiveMember(t *testing.T) {
	service, repo := newLeagueServiceForTest(20)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if err := service.JoinLeague(t.Context(), "user-2", created.ID); err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	membership, exists, err := repo.GetMembership(t.Context(), created.ID, "user-2")
	if err != nil || !exists {
		t.Fatalf("expected membership for user-2, exists=%v err=%v", exists, err)
	}
	if membership.Role != league.RoleMember || membership.Status != league.MembershipStatusActive {
		t.Fatalf("expected active member role, got role=%s status=%s", membership.Role, membership.Status)
	}
}

func TestLeagueService_JoinLeague_UnknownLeague(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	err := service.JoinLeague(t.Context(), "user-1", "missing-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_JoinLeague_DuplicateBlocked(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if err := service.JoinLeague(t.Context(), "user-2", created.ID); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if err := service.JoinLeague(t.Context(), "user-2", created.ID); !errors.Is(err, league.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	// The creator holds a membership row too, so re-joining their own
	// league is rejected the same way.
	if err := service.JoinLeague(t.Context(), "user-1", created.ID); !errors.Is(err, league.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember for creator, got %v", err)
	}
}

func TestLeagueService_JoinLeague_FullLeague(t *testing.T) {
	service, _ := newLeagueServiceForTest(3)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if err := service.JoinLeague(t.Context(), "user-2", created.ID); err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	if err := service.JoinLeague(t.Context(), "user-3", created.ID); err != nil {
		t.Fatalf("third join failed: %v", err)
	}

	if err := service.JoinLeague(t.Context(), "user-4", created.ID); !errors.Is(err, league.ErrLeagueFull) {
		t.Fatalf("expected ErrLeagueFull, got %v", err)
	}
}

func TestLeagueService_ListUserLeagues(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	first, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "First League"})
	if err != nil {
		t.Fatalf("create first league failed: %v", err)
	}
	second, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-2", Name: "Second League"})
	if err != nil {
		t.Fatalf("create second league failed: %v", err)
	}
	if err := service.JoinLeague(t.Context(), "user-1", second.ID); err != nil {
		t.Fatalf("join second league failed: %v", err)
	}

	items, err := service.ListUserLeagues(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("list user leagues failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(items))
	}
	if items[0].League.ID != first.ID || items[0].Role != league.RoleCreator {
		t.Fatalf("expected first league with creator role, got id=%s role=%s", items[0].League.ID, items[0].Role)
	}
	if items[1].League.ID != second.ID || items[1].Role != league.RoleMember {
		t.Fatalf("expected second league with member role, got id=%s role=%s", items[1].League.ID, items[1].Role)
	}
}

func TestLeagueService_GetLeague_MembershipRequired(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	item, role, err := service.GetLeague(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get league as creator failed: %v", err)
	}
	if item.ID != created.ID || role != league.RoleCreator {
		t.Fatalf("expected creator view, got id=%s role=%s", item.ID, role)
	}

	if _, _, err := service.GetLeague(t.Context(), "user-2", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
	if _, _, err := service.GetLeague(t.Context(), "user-1", "missing-league"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_ListMembers_SortedByJoinTime(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return base }

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	service.now = func() time.Time { return base.Add(time.Minute) }
	if err := service.JoinLeague(t.Context(), "user-2", created.ID); err != nil {
		t.Fatalf("join user-2 failed: %v", err)
	}

	// Same timestamp as user-2; insertion order breaks the tie.
	if err := service.JoinLeague(t.Context(), "user-3", created.ID); err != nil {
		t.Fatalf("join user-3 failed: %v", err)
	}

	members, err := service.ListMembers(t.Context(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	order := []string{"user-1", "user-2", "user-3"}
	for i, expected := range order {
		if members[i].UserID != expected {
			t.Fatalf("expected member %d to be %s, got %s", i, expected, members[i].UserID)
		}
	}
}

func TestLeagueService_ListMembers_AccessDenied(t *testing.T) {
	service, _ := newLeagueServiceForTest(20)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	if _, err := service.ListMembers(t.Context(), "user-2", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}

	// An unknown league looks exactly like a league the caller is not in.
	if _, err := service.ListMembers(t.Context(), "user-1", "missing-league"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown league, got %v", err)
	}
}

func TestLeagueService_JoinLeague_InactiveMembershipCountsTowardCap(t *testing.T) {
	service, repo := newLeagueServiceForTest(2)

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}

	inactive := league.Membership{
		ID:       "member-inactive",
		LeagueID: created.ID,
		UserID:   "user-2",
		Role:     league.RoleMember,
		JoinedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:   league.MembershipStatusInactive,
	}
	if err := repo.AddMember(t.Context(), inactive, 0); err != nil {
		t.Fatalf("seed inactive member failed: %v", err)
	}

	if err := service.JoinLeague(t.Context(), "user-3", created.ID); !errors.Is(err, league.ErrLeagueFull) {
		t.Fatalf("expected ErrLeagueFull with inactive row counted, got %v", err)
	}
}

func TestLeagueService_InviteMember_AdminOnly(t *testing.T) {
	service, repo := newLeagueServiceForTest(20)

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	created, err := service.CreateLeague(t.Context(), CreateLeagueInput{UserID: "user-1", Name: "Premier Pals"})
	if err != nil {
		t.Fatalf("create league failed: %v", err)
	}
	if err := service.JoinLeague(t.Context(), "user-2", created.ID); err != nil {
		t.Fatalf("join league failed: %v", err)
	}

	invitation, err := service.InviteMember(t.Context(), InviteMemberInput{
		UserID:   "user-1",
		LeagueID: created.ID,
		Email:    " Friend@Example.COM ",
	})
	if err != nil {
		t.Fatalf("invite as creator failed: %v", err)
	}
	if invitation.InvitedEmail != "friend@example.com" {
		t.Fatalf("expected normalized email, got %q", invitation.InvitedEmail)
	}
	if invitation.Status != league.InvitationStatusPending {
		t.Fatalf("expected pending invitation, got %s", invitation.Status)
	}
	if !invitation.ExpiresAt.Equal(now.Add(7 * 24 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", invitation.ExpiresAt)
	}
	if _, ok := repo.GetInvitation(invitation.ID); !ok {
		t.Fatalf("expected invitation to be persisted")
	}

	_, err = service.InviteMember(t.Context(), InviteMemberInput{
		UserID:   "user-2",
		LeagueID: created.ID,
		Email:    "friend@example.com",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain member, got %v", err)
	}
}
