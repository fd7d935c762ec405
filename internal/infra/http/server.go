package http

import (
	"context"
	"net/http"

	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/infra/auth/token"
	"taskboard/internal/infra/db"
	"taskboard/internal/infra/ratelimit"
	"taskboard/internal/infra/sessioncache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// SessionStore is the session store adapter contract: FindByToken must be
// a point lookup by exact token equality returning the session joined
// with its owning user, or domain.ErrNotFound.
type SessionStore interface {
	Create(ctx context.Context, session domain.Session) error
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type ProjectStore interface {
	Create(ctx context.Context, project domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Project, error)
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskStore interface {
	Create(ctx context.Context, task domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

type MilestoneStore interface {
	Create(ctx context.Context, milestone domain.Milestone) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Milestone, error)
}

type TeamStore interface {
	Create(ctx context.Context, team domain.Team) error
	List(ctx context.Context) ([]domain.Team, error)
	AddMember(ctx context.Context, member domain.TeamMember) error
}

type NotificationStore interface {
	Create(ctx context.Context, notification domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	codec *token.Codec

	users         UserStore
	sessions      SessionStore
	projects      ProjectStore
	tasks         TaskStore
	milestones    MilestoneStore
	teams         TeamStore
	notifications NotificationStore

	loginLimiter domain.RateLimiter
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.codec = token.NewCodec(cfg.JWTSecret, cfg.TokenTTL())
	s.initDeps()
	s.routes()
	return s
}

type ServerDeps struct {
	Codec         *token.Codec
	Users         UserStore
	Sessions      SessionStore
	Projects      ProjectStore
	Tasks         TaskStore
	Milestones    MilestoneStore
	Teams         TeamStore
	Notifications NotificationStore
	LoginLimiter  domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:           cfg,
		r:             r,
		codec:         deps.Codec,
		users:         deps.Users,
		sessions:      deps.Sessions,
		projects:      deps.Projects,
		tasks:         deps.Tasks,
		milestones:    deps.Milestones,
		teams:         deps.Teams,
		notifications: deps.Notifications,
		loginLimiter:  deps.LoginLimiter,
	}
	if s.codec == nil {
		s.codec = token.NewCodec(cfg.JWTSecret, cfg.TokenTTL())
	}
	s.routes()
	return s
}

func (s *Server) initDeps() {
	var gdb *gorm.DB
	if s.store != nil {
		gdb = s.store.DB
	}

	s.users = db.NewUserRepository(gdb)
	sessionRepo := db.NewSessionRepository(gdb)
	s.sessions = sessionRepo
	if s.cfg.RedisAddr != "" {
		if cached, err := sessioncache.New(sessionRepo, s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, s.cfg.SessionCacheTTL()); err == nil {
			s.sessions = cached
		}
	}
	s.projects = db.NewProjectRepository(gdb)
	s.tasks = db.NewTaskRepository(gdb)
	s.milestones = db.NewMilestoneRepository(gdb)
	s.teams = db.NewTeamRepository(gdb)
	s.notifications = db.NewNotificationRepository(gdb)

	if s.cfg.LoginRateLimit > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.loginLimiter = limiter
			}
		}
		if s.loginLimiter == nil {
			s.loginLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{})
		}
	}
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", s.wrap(s.handleRegister))
		auth.POST("/login", s.wrap(s.handleLogin))
		auth.POST("/logout", s.authenticate(), s.wrap(s.handleLogout))
		auth.GET("/me", s.authenticate(), s.wrap(s.handleMe))

		v1.GET("/projects", s.optionalAuthenticate(), s.wrap(s.handleListProjects))
		v1.POST("/projects", s.authenticate(), s.wrap(s.handleCreateProject))
		v1.GET("/projects/:project_id", s.authenticate(), s.wrap(s.handleGetProject))
		v1.PATCH("/projects/:project_id", s.authenticate(), s.wrap(s.handleUpdateProject))
		v1.DELETE("/projects/:project_id", s.authenticate(), authorize(domain.RoleAdmin, domain.RoleManager), s.wrap(s.handleDeleteProject))
		v1.GET("/projects/:project_id/timeline", s.authenticate(), s.wrap(s.handleProjectTimeline))

		v1.GET("/projects/:project_id/tasks", s.authenticate(), s.wrap(s.handleListTasks))
		v1.POST("/projects/:project_id/tasks", s.authenticate(), s.wrap(s.handleCreateTask))
		v1.PATCH("/tasks/:task_id", s.authenticate(), s.wrap(s.handleUpdateTask))
		v1.DELETE("/tasks/:task_id", s.authenticate(), authorize(domain.RoleAdmin, domain.RoleManager), s.wrap(s.handleDeleteTask))

		v1.GET("/projects/:project_id/milestones", s.authenticate(), s.wrap(s.handleListMilestones))
		v1.POST("/projects/:project_id/milestones", s.authenticate(), authorize(domain.RoleAdmin, domain.RoleManager), s.wrap(s.handleCreateMilestone))

		v1.GET("/teams", s.authenticate(), s.wrap(s.handleListTeams))
		v1.POST("/teams", s.authenticate(), authorize(domain.RoleAdmin), s.wrap(s.handleCreateTeam))
		v1.POST("/teams/:team_id/members", s.authenticate(), authorize(domain.RoleAdmin, domain.RoleManager), s.wrap(s.handleAddTeamMember))

		v1.GET("/notifications", s.authenticate(), s.wrap(s.handleListNotifications))
		v1.POST("/notifications/:notification_id/read", s.authenticate(), s.wrap(s.handleMarkNotificationRead))

		admin := v1.Group("/admin", s.authenticate(), authorize(domain.RoleAdmin))
		admin.GET("/users", s.wrap(s.handleListUsers))
		admin.POST("/users/:user_id/deactivate", s.wrap(s.handleDeactivateUser))
	}

	s.r.NoRoute(s.handleNoRoute)
}

func (s *Server) handleNoRoute(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Route not found"})
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}
