package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"medquest/careers-api/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(appID string) (*models.Application, error)
	FindAll() ([]models.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements ApplicationRepository.
func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// FindByID implements ApplicationRepository.
func (r *applicationRepository) FindByID(appID string) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("app_id = ?", appID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, appID)
		}

		return nil, fmt.Errorf("failed to find application: %w", err)
	}

	return &app, nil
}

// FindAll implements ApplicationRepository.
func (r *applicationRepository) FindAll() ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}
