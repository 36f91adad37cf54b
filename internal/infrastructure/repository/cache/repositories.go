package cache

import (
	"context"
	"time"

	"github.com/sflhq/league-service/internal/domain/league"
	basecache "github.com/sflhq/league-service/internal/platform/cache"
)

// LeagueRepository caches hot reads in front of the postgres repository.
// Membership-dependent reads go straight through; caching them would let a
// join serve a stale roster to the joining user.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) CreateLeague(ctx context.Context, l league.League, creator league.Membership) error {
	if err := r.next.CreateLeague(ctx, l, creator); err != nil {
		return err
	}

	r.cache.Delete(ctx, leagueByIDKey(l.ID))
	return nil
}

func (r *LeagueRepository) GetLeagueByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetLeagueByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListLeaguesByUser(ctx context.Context, userID string) ([]league.LeagueWithRole, error) {
	return r.next.ListLeaguesByUser(ctx, userID)
}

func (r *LeagueRepository) GetMembership(ctx context.Context, leagueID, userID string) (league.Membership, bool, error) {
	return r.next.GetMembership(ctx, leagueID, userID)
}

func (r *LeagueRepository) ListActiveMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	return r.next.ListActiveMembers(ctx, leagueID)
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership, maxMembers int) error {
	return r.next.AddMember(ctx, m, maxMembers)
}

func (r *LeagueRepository) CreateInvitation(ctx context.Context, inv league.Invitation) error {
	return r.next.CreateInvitation(ctx, inv)
}

func (r *LeagueRepository) ListExpiredPendingInvitations(ctx context.Context, asOf time.Time, limit int) ([]league.Invitation, error) {
	return r.next.ListExpiredPendingInvitations(ctx, asOf, limit)
}

func (r *LeagueRepository) MarkInvitationsExpired(ctx context.Context, ids []string) (int64, error) {
	return r.next.MarkInvitationsExpired(ctx, ids)
}

func leagueByIDKey(leagueID string) string {
	return "league:id:" + leagueID
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}
