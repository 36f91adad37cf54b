package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sflhq/league-service/internal/domain/league"
	qb "github.com/sflhq/league-service/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// CreateLeague inserts the league and its creator membership in one
// transaction so a league never exists without its first member.
func (r *LeagueRepository) CreateLeague(ctx context.Context, l league.League, creator league.Membership) error {
	leagueQuery, leagueArgs, err := qb.InsertModel("leagues", leagueInsertModel{
		ID:           l.ID,
		Name:         l.Name,
		Description:  l.Description,
		CreatorID:    l.CreatorID,
		SeasonNumber: l.SeasonNumber,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	memberQuery, memberArgs, err := qb.InsertModel("league_memberships", membershipTableModel{
		ID:       creator.ID,
		LeagueID: creator.LeagueID,
		UserID:   creator.UserID,
		Role:     string(creator.Role),
		JoinedAt: creator.JoinedAt,
		Status:   string(creator.Status),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert creator membership query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create league tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, leagueQuery, leagueArgs...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}
	if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
		return fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetLeagueByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("id", "name", "description", "creator_id", "season_number", "created_at", "updated_at").
		From("leagues").
		Where(
			qb.Eq("id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListLeaguesByUser(ctx context.Context, userID string) ([]league.LeagueWithRole, error) {
	query, args, err := qb.Select(
		"l.id", "l.name", "l.description", "l.creator_id", "l.season_number", "l.created_at", "l.updated_at",
		"m.role",
	).
		From("leagues l JOIN league_memberships m ON m.league_id = l.id").
		Where(
			qb.Eq("m.user_id", userID),
			qb.Eq("m.status", string(league.MembershipStatusActive)),
			qb.IsNull("l.deleted_at"),
		).
		OrderBy("l.created_at ASC", "l.id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by user query: %w", err)
	}

	var rows []leagueWithRoleRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by user: %w", err)
	}

	out := make([]league.LeagueWithRole, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.LeagueWithRole{
			League: league.League{
				ID:           row.ID,
				Name:         row.Name,
				Description:  row.Description,
				CreatorID:    row.CreatorID,
				SeasonNumber: row.SeasonNumber,
				CreatedAt:    row.CreatedAt,
				UpdatedAt:    row.UpdatedAt,
			},
			Role: league.Role(row.Role),
		})
	}

	return out, nil
}

func (r *LeagueRepository) GetMembership(ctx context.Context, leagueID, userID string) (league.Membership, bool, error) {
	query, args, err := qb.Select("id", "league_id", "user_id", "role", "joined_at", "status").
		From("league_memberships").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return league.Membership{}, false, fmt.Errorf("build get membership query: %w", err)
	}

	var row membershipTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Membership{}, false, nil
		}
		return league.Membership{}, false, fmt.Errorf("get membership: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListActiveMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	query, args, err := qb.Select("id", "league_id", "user_id", "role", "joined_at", "status").
		From("league_memberships").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("status", string(league.MembershipStatusActive)),
		).
		OrderBy("joined_at ASC", "seq ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list active members query: %w", err)
	}

	var rows []membershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active members: %w", err)
	}

	out := make([]league.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// AddMember locks the league row so the duplicate check and the member cap
// hold under concurrent joins.
func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership, maxMembers int) error {
	lockQuery, lockArgs, err := qb.Select("id").
		From("leagues").
		Where(
			qb.Eq("id", m.LeagueID),
			qb.IsNull("deleted_at"),
		).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock league query: %w", err)
	}

	existsQuery, existsArgs, err := qb.Select("COUNT(1)").
		From("league_memberships").
		Where(
			qb.Eq("league_id", m.LeagueID),
			qb.Eq("user_id", m.UserID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build membership exists query: %w", err)
	}

	countQuery, countArgs, err := qb.Select("COUNT(1)").
		From("league_memberships").
		Where(qb.Eq("league_id", m.LeagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build member count query: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertModel("league_memberships", membershipTableModel{
		ID:       m.ID,
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
		Status:   string(m.Status),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert membership query: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add member tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var lockedID string
	if err := tx.GetContext(ctx, &lockedID, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("league %s disappeared before join", m.LeagueID)
		}
		return fmt.Errorf("lock league for join: %w", err)
	}

	var existingCount int
	if err := tx.GetContext(ctx, &existingCount, existsQuery, existsArgs...); err != nil {
		return fmt.Errorf("check existing membership: %w", err)
	}
	if existingCount > 0 {
		return league.ErrAlreadyMember
	}

	var memberCount int
	if err := tx.GetContext(ctx, &memberCount, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count league members: %w", err)
	}
	if maxMembers > 0 && memberCount >= maxMembers {
		return league.ErrLeagueFull
	}

	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add member tx: %w", err)
	}

	return nil
}

func (r *LeagueRepository) CreateInvitation(ctx context.Context, inv league.Invitation) error {
	query, args, err := qb.InsertModel("league_invitations", invitationTableModel{
		ID:           inv.ID,
		LeagueID:     inv.LeagueID,
		InvitedBy:    inv.InvitedBy,
		InvitedEmail: inv.InvitedEmail,
		Status:       string(inv.Status),
		ExpiresAt:    inv.ExpiresAt,
		CreatedAt:    inv.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert invitation query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}

	return nil
}

func (r *LeagueRepository) ListExpiredPendingInvitations(ctx context.Context, asOf time.Time, limit int) ([]league.Invitation, error) {
	builder := qb.Select("id", "league_id", "invited_by", "invited_email", "status", "expires_at", "created_at").
		From("league_invitations").
		Where(
			qb.Eq("status", string(league.InvitationStatusPending)),
			qb.Lt("expires_at", asOf),
		).
		OrderBy("expires_at ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list expired invitations query: %w", err)
	}

	var rows []invitationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select expired invitations: %w", err)
	}

	out := make([]league.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) MarkInvitationsExpired(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	query, args, err := qb.Update("league_invitations").
		Set("status", string(league.InvitationStatusExpired)).
		Where(
			qb.In("id", values),
			qb.Eq("status", string(league.InvitationStatusPending)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark invitations expired query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark invitations expired: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read mark invitations expired result: %w", err)
	}

	return updated, nil
}
