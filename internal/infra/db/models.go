package db

import "time"

type UserModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type SessionModel struct {
	Token     string    `gorm:"primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UserAgent string
	IPAddress string
	User      UserModel `gorm:"foreignKey:UserID"`
}

func (SessionModel) TableName() string { return "sessions" }

type TeamModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TeamModel) TableName() string { return "teams" }

type TeamMemberModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	TeamID    string    `gorm:"type:uuid;index;uniqueIndex:idx_team_user;not null"`
	UserID    string    `gorm:"type:uuid;index;uniqueIndex:idx_team_user;not null"`
	Role      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (TeamMemberModel) TableName() string { return "team_members" }

type ProjectModel struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	TeamID      *string `gorm:"type:uuid;index"`
	OwnerID     string  `gorm:"type:uuid;index;not null"`
	Name        string  `gorm:"not null"`
	Description string
	Status      string `gorm:"index;not null"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ProjectModel) TableName() string { return "projects" }

type TaskModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	ProjectID   string `gorm:"type:uuid;index;not null"`
	Title       string `gorm:"not null"`
	Description string
	Status      string  `gorm:"index;not null"`
	Priority    string  `gorm:"not null"`
	AssigneeID  *string `gorm:"type:uuid;index"`
	MilestoneID *string `gorm:"type:uuid;index"`
	DueDate     *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (TaskModel) TableName() string { return "tasks" }

type MilestoneModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ProjectID string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	DueDate   time.Time `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (MilestoneModel) TableName() string { return "milestones" }

type NotificationModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;index;not null"`
	Type      string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Read      bool   `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (NotificationModel) TableName() string { return "notifications" }
