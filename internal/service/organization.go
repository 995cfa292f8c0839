package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alumnihub/backend/internal/models"
	"gorm.io/gorm"
)

var ErrEmptyName = errors.New("name must not be empty")

// OrganizationService serves organization and city master data. Rows are
// created on demand as members type new values; lookup is case-insensitive
// so "Acme" and "acme" never become two rows.
type OrganizationService struct {
	db *gorm.DB
}

var _ IOrganizationService = (*OrganizationService)(nil)

func NewOrganizationService(db *gorm.DB) *OrganizationService {
	return &OrganizationService{db: db}
}

// SearchOrganizations returns organizations whose name starts with the query.
func (s *OrganizationService) SearchOrganizations(ctx context.Context, query string, limit int) ([]*models.Organization, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var orgs []*models.Organization
	if err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", strings.ToLower(query)+"%").
		Order("name").
		Limit(limit).
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// SearchCities returns cities whose name starts with the query.
func (s *OrganizationService) SearchCities(ctx context.Context, query string, limit int) ([]*models.City, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	var cities []*models.City
	if err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", strings.ToLower(query)+"%").
		Order("name").
		Limit(limit).
		Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// FindOrCreateOrganization returns the existing row for name+country or
// inserts a new one. Matching ignores case and surrounding whitespace.
func (s *OrganizationService) FindOrCreateOrganization(ctx context.Context, name, country string) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	if name == "" {
		return nil, ErrEmptyName
	}

	var org models.Organization
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND LOWER(country) = ?", strings.ToLower(name), strings.ToLower(country)).
		First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	org = models.Organization{Name: name, Country: country}
	if err := s.db.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindOrCreateCity is the city counterpart of FindOrCreateOrganization.
func (s *OrganizationService) FindOrCreateCity(ctx context.Context, name, country string) (*models.City, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	if name == "" {
		return nil, ErrEmptyName
	}

	var city models.City
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ? AND LOWER(country) = ?", strings.ToLower(name), strings.ToLower(country)).
		First(&city).Error
	if err == nil {
		return &city, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	city = models.City{Name: name, Country: country}
	if err := s.db.WithContext(ctx).Create(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}
