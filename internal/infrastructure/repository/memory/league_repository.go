package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sflhq/league-service/internal/domain/league"
)

type membershipKey struct {
	leagueID string
	userID   string
}

// LeagueRepository is an in-memory league.Repository used by tests and
// local development.
type LeagueRepository struct {
	mu              sync.RWMutex
	leagues         map[string]league.League
	leagueOrder     []string
	memberships     map[membershipKey]league.Membership
	membershipSeq   map[membershipKey]int64
	invitations     map[string]league.Invitation
	invitationOrder []string
	nextSeq         int64
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		leagues:       make(map[string]league.League),
		memberships:   make(map[membershipKey]league.Membership),
		membershipSeq: make(map[membershipKey]int64),
		invitations:   make(map[string]league.Invitation),
	}
}

func (r *LeagueRepository) CreateLeague(_ context.Context, l league.League, creator league.Membership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[l.ID] = l
	r.leagueOrder = append(r.leagueOrder, l.ID)
	r.putMembershipLocked(creator)
	return nil
}

func (r *LeagueRepository) GetLeagueByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) ListLeaguesByUser(_ context.Context, userID string) ([]league.LeagueWithRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.LeagueWithRole, 0)
	for _, leagueID := range r.leagueOrder {
		m, ok := r.memberships[membershipKey{leagueID: leagueID, userID: userID}]
		if !ok || m.Status != league.MembershipStatusActive {
			continue
		}
		out = append(out, league.LeagueWithRole{
			League: r.leagues[leagueID],
			Role:   m.Role,
		})
	}

	return out, nil
}

func (r *LeagueRepository) GetMembership(_ context.Context, leagueID, userID string) (league.Membership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.memberships[membershipKey{leagueID: leagueID, userID: userID}]
	if !ok {
		return league.Membership{}, false, nil
	}

	return m, true, nil
}

func (r *LeagueRepository) ListActiveMembers(_ context.Context, leagueID string) ([]league.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type row struct {
		membership league.Membership
		seq        int64
	}
	rows := make([]row, 0)
	for key, m := range r.memberships {
		if key.leagueID != leagueID || m.Status != league.MembershipStatusActive {
			continue
		}
		rows = append(rows, row{membership: m, seq: r.membershipSeq[key]})
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].membership.JoinedAt.Equal(rows[j].membership.JoinedAt) {
			return rows[i].membership.JoinedAt.Before(rows[j].membership.JoinedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	out := make([]league.Membership, 0, len(rows))
	for _, item := range rows {
		out = append(out, item.membership)
	}

	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, m league.Membership, maxMembers int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey{leagueID: m.LeagueID, userID: m.UserID}
	if _, exists := r.memberships[key]; exists {
		return league.ErrAlreadyMember
	}

	memberCount := 0
	for existingKey := range r.memberships {
		if existingKey.leagueID == m.LeagueID {
			memberCount++
		}
	}
	if maxMembers > 0 && memberCount >= maxMembers {
		return league.ErrLeagueFull
	}

	r.putMembershipLocked(m)
	return nil
}

func (r *LeagueRepository) CreateInvitation(_ context.Context, inv league.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invitations[inv.ID] = inv
	r.invitationOrder = append(r.invitationOrder, inv.ID)
	return nil
}

func (r *LeagueRepository) ListExpiredPendingInvitations(_ context.Context, asOf time.Time, limit int) ([]league.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Invitation, 0)
	for _, id := range r.invitationOrder {
		inv := r.invitations[id]
		if inv.Status != league.InvitationStatusPending || !inv.ExpiresAt.Before(asOf) {
			continue
		}
		out = append(out, inv)
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	return out, nil
}

func (r *LeagueRepository) MarkInvitationsExpired(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for _, id := range ids {
		inv, ok := r.invitations[id]
		if !ok || inv.Status != league.InvitationStatusPending {
			continue
		}
		inv.Status = league.InvitationStatusExpired
		r.invitations[id] = inv
		updated++
	}

	return updated, nil
}

// GetInvitation is a test helper; the service API never reads a single
// invitation back.
func (r *LeagueRepository) GetInvitation(id string) (league.Invitation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.invitations[id]
	return inv, ok
}

func (r *LeagueRepository) putMembershipLocked(m league.Membership) {
	key := membershipKey{leagueID: m.LeagueID, userID: m.UserID}
	r.nextSeq++
	r.memberships[key] = m
	r.membershipSeq[key] = r.nextSeq
}
