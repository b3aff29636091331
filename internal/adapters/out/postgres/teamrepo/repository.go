// Package teamrepo reads the team directory from the teams and team_members tables.
package teamrepo

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/team"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// TeamDTO is the row of the teams table.
type TeamDTO struct {
	ID       string          `gorm:"type:varchar(64);primaryKey"`
	Name     string          `gorm:"type:varchar(255)"`
	LeaderID string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Members  []TeamMemberDTO `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

func (TeamDTO) TableName() string {
	return "teams"
}

// TeamMemberDTO is the row of the team_members table. Position keeps the directory order.
type TeamMemberDTO struct {
	TeamID   string `gorm:"type:varchar(64);primaryKey"`
	UserID   string `gorm:"type:varchar(64);primaryKey"`
	Name     string `gorm:"type:varchar(255)"`
	Position int    `gorm:"not null"`
}

func (TeamMemberDTO) TableName() string {
	return "team_members"
}

// GormTeamDirectory implements ports.TeamDirectory using GORM.
type GormTeamDirectory struct {
	db *gorm.DB
}

var _ ports.TeamDirectory = (*GormTeamDirectory)(nil)

func NewGormTeamDirectory(db *gorm.DB) *GormTeamDirectory {
	return &GormTeamDirectory{db: db}
}

func (d *GormTeamDirectory) GetTeam(ctx context.Context, teamID string) (*team.Team, error) {
	return d.first(ctx, "team", teamID, "id = ?")
}

func (d *GormTeamDirectory) GetTeamByLeader(ctx context.Context, leaderID string) (*team.Team, error) {
	return d.first(ctx, "team leader", leaderID, "leader_id = ?")
}

// Save replaces a team and its member list. The directory is maintained outside this
// service; Save is used to seed it.
func (d *GormTeamDirectory) Save(ctx context.Context, t *team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := TeamDTO{ID: t.ID(), Name: t.Name(), LeaderID: t.LeaderID()}
	for i, m := range t.Members() {
		dto.Members = append(dto.Members, TeamMemberDTO{TeamID: t.ID(), UserID: m.UserID(), Name: m.Name(), Position: i})
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", t.ID()).Delete(&TeamMemberDTO{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto).Error
	})
}

func (d *GormTeamDirectory) first(ctx context.Context, param, id, where string) (*team.Team, error) {
	var dto TeamDTO
	err := d.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, where, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

func toDomain(dto TeamDTO) (*team.Team, error) {
	members := make([]team.Member, 0, len(dto.Members))
	for _, m := range dto.Members {
		member, err := team.NewMember(m.UserID, m.Name)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return team.NewTeam(dto.ID, dto.Name, dto.LeaderID, members)
}
