package http

import (
	"net/http"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type addTeamMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER MEMBER"`
}

type teamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListTeams(c *gin.Context) error {
	teams, err := s.teams.List(c.Request.Context())
	if err != nil {
		return err
	}
	out := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		out = append(out, teamResponse{ID: team.ID, Name: team.Name, CreatedAt: team.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
	return nil
}

func (s *Server) handleCreateTeam(c *gin.Context) error {
	var req createTeamRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	team := domain.Team{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now(),
	}
	if err := s.teams.Create(c.Request.Context(), team); err != nil {
		return err
	}
	c.JSON(http.StatusCreated, teamResponse{ID: team.ID, Name: team.Name, CreatedAt: team.CreatedAt})
	return nil
}

func (s *Server) handleAddTeamMember(c *gin.Context) error {
	teamID, err := parseUUIDParam(c, "team_id")
	if err != nil {
		return err
	}
	var req addTeamMemberRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := s.users.GetByID(c.Request.Context(), req.UserID); err != nil {
		return err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	member := domain.TeamMember{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		UserID:    req.UserID,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := s.teams.AddMember(c.Request.Context(), member); err != nil {
		return err
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      member.ID,
		"team_id": member.TeamID,
		"user_id": member.UserID,
		"role":    member.Role,
	})
	return nil
}
