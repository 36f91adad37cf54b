package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/sflhq/league-service/internal/domain/league"
	"github.com/sflhq/league-service/internal/usecase"
)

type createLeagueRequest struct {
	Name         string  `json:"name" validate:"required,min=3,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	SeasonNumber int     `json:"seasonNumber" validate:"omitempty,gte=1"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"inviteCode" validate:"omitempty,len=6"`
}

type inviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type leagueDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	CreatorID    string  `json:"creatorId"`
	SeasonNumber int     `json:"seasonNumber"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type leagueDetailDTO struct {
	leagueDTO
	UserRole string `json:"userRole"`
}

type leagueWithRoleDTO struct {
	League   leagueDTO `json:"league"`
	UserRole string    `json:"userRole"`
}

type memberDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

type invitationDTO struct {
	ID           string `json:"id"`
	LeagueID     string `json:"leagueId"`
	InvitedEmail string `json:"invitedEmail"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expiresAt"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req createLeagueRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode create league request: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeValidationError(ctx, w, fieldViolationsFromError(err))
		return
	}

	created, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		UserID:       principal.UserID,
		Name:         req.Name,
		Description:  req.Description,
		SeasonNumber: req.SeasonNumber,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, map[string]any{
		"message": "League created successfully",
		"league":  leagueToDTO(created),
	})
}

func (h *Handler) ListUserLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	items, err := h.leagueService.ListUserLeagues(ctx, principal.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list user leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leagueWithRoleDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueWithRoleDTO{
			League:   leagueToDTO(item.League),
			UserRole: string(item.Role),
		})
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"leagueResponse": out})
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	leagueID, ok := h.leagueIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	item, role, err := h.leagueService.GetLeague(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		if errors.Is(err, usecase.ErrForbidden) {
			writeJSON(ctx, w, http.StatusForbidden, errorResponse{Error: msgNotLeagueMember})
			return
		}
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{
		"league": leagueDetailDTO{
			leagueDTO: leagueToDTO(item),
			UserRole:  string(role),
		},
	})
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	leagueID, ok := h.leagueIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req joinLeagueRequest
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: decode join league request: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeValidationError(ctx, w, fieldViolationsFromError(err))
		return
	}

	// Invite codes are shape checked but not enforced. Private leagues need
	// a join-approval flow before the code can gate the join.
	_ = req.InviteCode

	if err := h.leagueService.JoinLeague(ctx, principal.UserID, leagueID); err != nil {
		h.logger.WarnContext(ctx, "join league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"message": "Successfully joined the league",
	})
}

func (h *Handler) ListLeagueMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMembers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	leagueID, ok := h.leagueIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	members, err := h.leagueService.ListMembers(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league members failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]memberDTO, 0, len(members))
	for _, member := range members {
		out = append(out, memberDTO{
			ID:       member.ID,
			UserID:   member.UserID,
			Role:     string(member.Role),
			JoinedAt: member.JoinedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(ctx, w, http.StatusOK, map[string]any{"members": out})
}

func (h *Handler) InviteLeagueMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InviteLeagueMember")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: msgNoToken})
		return
	}

	leagueID, ok := h.leagueIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req inviteMemberRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode invite member request: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeValidationError(ctx, w, fieldViolationsFromError(err))
		return
	}

	invitation, err := h.leagueService.InviteMember(ctx, usecase.InviteMemberInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		Email:    req.Email,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "invite league member failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, map[string]any{
		"message": "Invitation sent successfully",
		"invitation": invitationDTO{
			ID:           invitation.ID,
			LeagueID:     invitation.LeagueID,
			InvitedEmail: invitation.InvitedEmail,
			Status:       string(invitation.Status),
			ExpiresAt:    invitation.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}

func (h *Handler) leagueIDFromPath(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	leagueID := r.PathValue("leagueID")
	if err := h.validator.VarCtx(ctx, leagueID, "required,uuid"); err != nil {
		writeValidationError(ctx, w, []fieldViolation{{
			Field:   "id",
			Message: "id must be a valid UUID",
			Code:    "uuid",
		}})
		return "", false
	}

	return leagueID, true
}

func leagueToDTO(item league.League) leagueDTO {
	return leagueDTO{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		CreatorID:    item.CreatorID,
		SeasonNumber: item.SeasonNumber,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
