package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medquest/careers-api/internal/models"
)

var ErrInviteNotFound = errors.New("invite not found")

type InviteRepository interface {
	Upsert(invite *models.Invite) error
	EnsureExists(appID, jobTitle string) (*models.Invite, error)
	FindByAppID(appID string) (*models.Invite, error)
	FindByToken(token string) (*models.Invite, error)
	FindAll() ([]models.Invite, error)
	Update(appID string, fields map[string]interface{}) error
	EnsureRSVPToken(appID string, newToken func() string) (string, error)
	SetRSVP(appID, status string, at time.Time) error
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

// Upsert inserts the invite or, when a row for the application already
// exists, refreshes only its recruiter and job title.
func (r *inviteRepository) Upsert(invite *models.Invite) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"recruiter", "job_title"}),
	}).Create(invite).Error
	if err != nil {
		return fmt.Errorf("failed to upsert invite: %w", err)
	}

	return nil
}

// EnsureExists creates a default schedule row for the application unless
// one is already present, and returns the stored row.
func (r *inviteRepository) EnsureExists(appID, jobTitle string) (*models.Invite, error) {
	now := time.Now()
	invite := models.Invite{
		AppID:             appID,
		JobTitle:          jobTitle,
		ResumeStatus:      models.StagePending,
		PhoneStatus:       models.StagePending,
		InpersonStatus:    models.StagePending,
		InvitedAt:         &now,
		ApplicationStatus: models.ApplicationOpen,
		RSVPStatus:        models.RSVPPending,
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&invite).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure invite: %w", err)
	}

	return r.FindByAppID(appID)
}

// FindByAppID implements InviteRepository.
func (r *inviteRepository) FindByAppID(appID string) (*models.Invite, error) {
	return r.findOne("app_id = ?", appID)
}

// FindByToken implements InviteRepository.
func (r *inviteRepository) FindByToken(token string) (*models.Invite, error) {
	if token == "" {
		return nil, ErrInviteNotFound
	}
	return r.findOne("rsvp_token = ?", token)
}

func (r *inviteRepository) findOne(query string, arg string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where(query, arg).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}

		return nil, fmt.Errorf("failed to find invite: %w", err)
	}

	return &invite, nil
}

// FindAll implements InviteRepository.
func (r *inviteRepository) FindAll() ([]models.Invite, error) {
	var invites []models.Invite
	if err := r.db.Find(&invites).Error; err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	return invites, nil
}

// Update implements InviteRepository.
func (r *inviteRepository) Update(appID string, fields map[string]interface{}) error {
	result := r.db.Model(&models.Invite{}).
		Where("app_id = ?", appID).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to update invite: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// EnsureRSVPToken returns the invite's RSVP token, issuing one (and
// stamping invited_at) when the row has none yet.
func (r *inviteRepository) EnsureRSVPToken(appID string, newToken func() string) (string, error) {
	var token string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var invite models.Invite
		if err := tx.Where("app_id = ?", appID).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if invite.RSVPToken != "" {
			token = invite.RSVPToken
			return nil
		}

		token = newToken()
		return tx.Model(&models.Invite{}).
			Where("app_id = ?", appID).
			Updates(map[string]interface{}{
				"rsvp_token": token,
				"invited_at": time.Now(),
			}).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to ensure rsvp token: %w", err)
	}

	return token, nil
}

// SetRSVP implements InviteRepository.
func (r *inviteRepository) SetRSVP(appID, status string, at time.Time) error {
	return r.Update(appID, map[string]interface{}{
		"rsvp_status":      status,
		"rsvp_response_at": at,
	})
}
