package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/alumnihub/backend/internal/models"
	"github.com/alumnihub/backend/internal/types"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService produces admin bulk exports of the member directory.
// Exports include approved members only but ignore the privacy flags:
// administrators see contact fields.
type ExportService struct {
	db *gorm.DB
}

var _ IExportService = (*ExportService)(nil)

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

var exportHeaders = []string{
	"Name",
	"Email",
	"Phone",
	"City",
	"Country",
	"Company",
	"Job Title",
	"Graduation Year",
	"Degree",
	"Skills",
	"Public",
}

// ExportProfilesXLSX returns an XLSX workbook of approved member profiles.
func (s *ExportService) ExportProfilesXLSX(ctx context.Context, filters *types.ProfileSearchFilters) ([]byte, error) {
	start := time.Now()

	rows, err := s.exportRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Members"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for i, record := range rows {
		for col, value := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	log.Printf("[ExportService] exported %d profiles to XLSX in %s", len(rows), time.Since(start))
	return buf.Bytes(), nil
}

// ExportProfilesCSV returns the same export as CSV.
func (s *ExportService) ExportProfilesCSV(ctx context.Context, filters *types.ProfileSearchFilters) ([]byte, error) {
	rows, err := s.exportRows(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, record := range rows {
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ExportService) exportRows(ctx context.Context, filters *types.ProfileSearchFilters) ([][]string, error) {
	query := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("status = ?", models.UserStatusApproved).
		Order("name")

	if filters != nil && filters.GraduationYear != 0 {
		query = query.
			Joins("JOIN alumni_profiles ON alumni_profiles.user_id = users.id").
			Where("alumni_profiles.graduation_year = ?", filters.GraduationYear)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(users))
	for i := range users {
		var profile models.AlumniProfile
		if err := s.db.WithContext(ctx).First(&profile, "user_id = ?", users[i].ID).Error; err != nil {
			continue
		}

		year := ""
		if profile.GraduationYear != 0 {
			year = strconv.Itoa(profile.GraduationYear)
		}
		rows = append(rows, []string{
			users[i].Name,
			profile.ContactEmail,
			profile.Phone,
			profile.City,
			profile.Country,
			profile.Company,
			profile.JobTitle,
			year,
			profile.Degree,
			strings.Join(profile.Skills, ", "),
			strconv.FormatBool(profile.IsPublic),
		})
	}
	return rows, nil
}
