package league

import "time"

// DefaultMaxMembers caps active members per league when no override is
// configured.
const DefaultMaxMembers = 20

type Role string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRejected InvitationStatus = "rejected"
	InvitationStatusExpired  InvitationStatus = "expired"
)

type League struct {
	ID           string
	Name         string
	Description  *string
	CreatorID    string
	SeasonNumber int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Membership struct {
	ID       string
	LeagueID string
	UserID   string
	Role     Role
	JoinedAt time.Time
	Status   MembershipStatus
}

// LeagueWithRole pairs a league with the caller's role in it.
type LeagueWithRole struct {
	League League
	Role   Role
}

// Invitation is a pending email invite. The expiry sweeper flips stale
// pending rows to expired.
type Invitation struct {
	ID           string
	LeagueID     string
	InvitedBy    string
	InvitedEmail string
	Status       InvitationStatus
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
