package league

import (
	"context"
	"time"
)

type Repository interface {
	// CreateLeague persists the league and its creator membership in one
	// transaction; a leaderless league must never be observable.
	CreateLeague(ctx context.Context, l League, creator Membership) error
	GetLeagueByID(ctx context.Context, leagueID string) (League, bool, error)
	ListLeaguesByUser(ctx context.Context, userID string) ([]LeagueWithRole, error)
	GetMembership(ctx context.Context, leagueID, userID string) (Membership, bool, error)
	// ListActiveMembers returns active memberships ordered by joined_at
	// ascending, equal timestamps keeping insertion order.
	ListActiveMembers(ctx context.Context, leagueID string) ([]Membership, error)
	// AddMember inserts the membership only if the user holds no membership in
	// the league (any status) and the total membership count is below
	// maxMembers. The check and insert are atomic: concurrent joins must not
	// race past the cap. Returns ErrAlreadyMember or ErrLeagueFull.
	AddMember(ctx context.Context, m Membership, maxMembers int) error

	CreateInvitation(ctx context.Context, inv Invitation) error
	ListExpiredPendingInvitations(ctx context.Context, asOf time.Time, limit int) ([]Invitation, error)
	MarkInvitationsExpired(ctx context.Context, ids []string) (int64, error)
}
