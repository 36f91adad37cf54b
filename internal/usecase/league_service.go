package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sflhq/league-service/internal/domain/league"
	idgen "github.com/sflhq/league-service/internal/platform/id"
)

type CreateLeagueInput struct {
	UserID       string
	Name         string
	Description  *string
	SeasonNumber int
}

type InviteMemberInput struct {
	UserID   string
	LeagueID string
	Email    string
}

// LeagueService implements league lifecycle and membership operations.
type LeagueService struct {
	leagueRepo league.Repository
	idGen      idgen.Generator
	maxMembers int
	inviteTTL  time.Duration
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, idGen idgen.Generator, maxMembers int, inviteTTL time.Duration) *LeagueService {
	if maxMembers < 1 {
		maxMembers = league.DefaultMaxMembers
	}
	if inviteTTL <= 0 {
		inviteTTL = 7 * 24 * time.Hour
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		idGen:      idGen,
		maxMembers: maxMembers,
		inviteTTL:  inviteTTL,
		now:        time.Now,
	}
}

// CreateLeague stores a new league and enrolls the creator as its first
// active member with the creator role.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	membershipID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate membership id: %w", err)
	}

	seasonNumber := input.SeasonNumber
	if seasonNumber < 1 {
		seasonNumber = 1
	}

	var description *string
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if trimmed != "" {
			description = &trimmed
		}
	}

	now := s.now().UTC()
	item := league.League{
		ID:           leagueID,
		Name:         input.Name,
		Description:  description,
		CreatorID:    input.UserID,
		SeasonNumber: seasonNumber,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	creator := league.Membership{
		ID:       membershipID,
		LeagueID: leagueID,
		UserID:   input.UserID,
		Role:     league.RoleCreator,
		JoinedAt: now,
		Status:   league.MembershipStatusActive,
	}

	if err := s.leagueRepo.CreateLeague(ctx, item, creator); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	return item, nil
}

// ListUserLeagues returns every league the user is an active member of,
// paired with the user's role in it.
func (s *LeagueService) ListUserLeagues(ctx context.Context, userID string) ([]league.LeagueWithRole, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListUserLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.leagueRepo.ListLeaguesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}

	return items, nil
}

// GetLeague returns one league plus the caller's role. Only active members
// may read league details.
func (s *LeagueService) GetLeague(ctx context.Context, userID, leagueID string) (league.League, league.Role, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return league.League{}, "", fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return league.League{}, "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetLeagueByID(ctx, leagueID)
	if err != nil {
		return league.League{}, "", fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, "", fmt.Errorf("%w: league not found", ErrNotFound)
	}

	membership, err := s.requireActiveMembership(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, "", err
	}

	return item, membership.Role, nil
}

// JoinLeague enrolls the caller as an active member. A membership row of any
// status blocks re-joining and counts toward the capacity cap.
func (s *LeagueService) JoinLeague(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetLeagueByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league not found", ErrNotFound)
	}

	membershipID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate membership id: %w", err)
	}

	member := league.Membership{
		ID:       membershipID,
		LeagueID: leagueID,
		UserID:   userID,
		Role:     league.RoleMember,
		JoinedAt: s.now().UTC(),
		Status:   league.MembershipStatusActive,
	}

	if err := s.leagueRepo.AddMember(ctx, member, s.maxMembers); err != nil {
		if errors.Is(err, league.ErrAlreadyMember) || errors.Is(err, league.ErrLeagueFull) {
			return err
		}
		return fmt.Errorf("add league member: %w", err)
	}

	return nil
}

// ListMembers returns the active members of a league ordered by join time.
// Only active members may see the roster; an unknown league answers the same
// way as a league the caller is not in.
func (s *LeagueService) ListMembers(ctx context.Context, userID, leagueID string) ([]league.Membership, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMembers")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	if _, err := s.requireActiveMembership(ctx, leagueID, userID); err != nil {
		return nil, err
	}

	members, err := s.leagueRepo.ListActiveMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	return members, nil
}

// InviteMember records a pending email invitation. Only the creator or an
// admin of the league may invite.
func (s *LeagueService) InviteMember(ctx context.Context, input InviteMemberInput) (league.Invitation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.InviteMember")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.UserID == "" {
		return league.Invitation{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.Invitation{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.Email == "" {
		return league.Invitation{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetLeagueByID(ctx, input.LeagueID)
	if err != nil {
		return league.Invitation{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.Invitation{}, fmt.Errorf("%w: league not found", ErrNotFound)
	}

	membership, err := s.requireActiveMembership(ctx, input.LeagueID, input.UserID)
	if err != nil {
		return league.Invitation{}, err
	}
	if membership.Role != league.RoleCreator && membership.Role != league.RoleAdmin {
		return league.Invitation{}, fmt.Errorf("%w: only league admins can invite members", ErrForbidden)
	}

	invitationID, err := s.idGen.NewID()
	if err != nil {
		return league.Invitation{}, fmt.Errorf("generate invitation id: %w", err)
	}

	now := s.now().UTC()
	invitation := league.Invitation{
		ID:           invitationID,
		LeagueID:     input.LeagueID,
		InvitedBy:    input.UserID,
		InvitedEmail: input.Email,
		Status:       league.InvitationStatusPending,
		ExpiresAt:    now.Add(s.inviteTTL),
		CreatedAt:    now,
	}

	if err := s.leagueRepo.CreateInvitation(ctx, invitation); err != nil {
		return league.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}

	return invitation, nil
}

func (s *LeagueService) requireActiveMembership(ctx context.Context, leagueID, userID string) (league.Membership, error) {
	membership, exists, err := s.leagueRepo.GetMembership(ctx, leagueID, userID)
	if err != nil {
		return league.Membership{}, fmt.Errorf("get league membership: %w", err)
	}
	if !exists || membership.Status != league.MembershipStatusActive {
		return league.Membership{}, fmt.Errorf("%w: not an active member of this league", ErrForbidden)
	}

	return membership, nil
}
