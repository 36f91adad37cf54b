package postgres

import (
	"time"

	"github.com/sflhq/league-service/internal/domain/league"
)

type leagueTableModel struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Description  *string    `db:"description"`
	CreatorID    string     `db:"creator_id"`
	SeasonNumber int        `db:"season_number"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		CreatorID:    m.CreatorID,
		SeasonNumber: m.SeasonNumber,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type leagueInsertModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	CreatorID    string    `db:"creator_id"`
	SeasonNumber int       `db:"season_number"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// membershipTableModel omits the seq column on writes; seq is a bigserial
// that exists only to break joined_at ties deterministically.
type membershipTableModel struct {
	ID       string    `db:"id"`
	LeagueID string    `db:"league_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
	Status   string    `db:"status"`
}

func (m membershipTableModel) toDomain() league.Membership {
	return league.Membership{
		ID:       m.ID,
		LeagueID: m.LeagueID,
		UserID:   m.UserID,
		Role:     league.Role(m.Role),
		JoinedAt: m.JoinedAt,
		Status:   league.MembershipStatus(m.Status),
	}
}

type leagueWithRoleRowModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	CreatorID    string    `db:"creator_id"`
	SeasonNumber int       `db:"season_number"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Role         string    `db:"role"`
}

type invitationTableModel struct {
	ID           string    `db:"id"`
	LeagueID     string    `db:"league_id"`
	InvitedBy    string    `db:"invited_by"`
	InvitedEmail string    `db:"invited_email"`
	Status       string    `db:"status"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
}

func (m invitationTableModel) toDomain() league.Invitation {
	return league.Invitation{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		InvitedBy:    m.InvitedBy,
		InvitedEmail: m.InvitedEmail,
		Status:       league.InvitationStatus(m.Status),
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
	}
}
