package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-marks-report/internal/models"
	appErrors "github.com/noah-isme/student-marks-report/pkg/errors"
)

// StudentRepository describes the roster source required by StudentService.
type StudentRepository interface {
	List(ctx context.Context) ([]models.StudentRecord, error)
}

// StudentService loads and validates the roster.
type StudentService struct {
	repo      StudentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo StudentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// LoadRoster returns every record after checking field ranges and id
// uniqueness. Bad data is a validation error and nothing is returned.
func (s *StudentService) LoadRoster(ctx context.Context) ([]models.StudentRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.WrapKind(err, appErrors.ErrRoster, "failed to load roster")
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roster is empty")
	}

	seen := make(map[int]int, len(records))
	for i, record := range records {
		if err := s.validator.Struct(record); err != nil {
			return nil, appErrors.WrapKind(err, appErrors.ErrValidation, fmt.Sprintf("invalid student record at position %d (id %d)", i, record.StudentID))
		}
		if prev, dup := seen[record.StudentID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate student_id %d at positions %d and %d", record.StudentID, prev, i))
		}
		seen[record.StudentID] = i
	}

	s.logger.Info("roster loaded", zap.Int("records", len(records)))
	return records, nil
}
