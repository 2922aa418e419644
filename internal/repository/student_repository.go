package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-marks-report/internal/models"
)

// defaultRoster is the compiled-in dataset analysed by every run.
var defaultRoster = []models.StudentRecord{
	{StudentID: 101, Name: "John Smith", ClassLabel: "10A", Math: 85, Science: 92, English: 78, Social: 88, Computer: 90},
	{StudentID: 102, Name: "Emma Wilson", ClassLabel: "10A", Math: 92, Science: 88, English: 85, Social: 90, Computer: 95},
	{StudentID: 103, Name: "Michael Brown", ClassLabel: "10B", Math: 78, Science: 82, English: 75, Social: 80, Computer: 85},
	{StudentID: 104, Name: "Sophia Davis", ClassLabel: "10A", Math: 95, Science: 98, English: 92, Social: 94, Computer: 96},
	{StudentID: 105, Name: "James Johnson", ClassLabel: "10B", Math: 82, Science: 85, English: 80, Social: 83, Computer: 88},
	{StudentID: 106, Name: "Olivia Martinez", ClassLabel: "10A", Math: 88, Science: 90, English: 86, Social: 89, Computer: 91},
	{StudentID: 107, Name: "William Garcia", ClassLabel: "10B", Math: 75, Science: 78, English: 72, Social: 76, Computer: 80},
	{StudentID: 108, Name: "Ava Anderson", ClassLabel: "10A", Math: 90, Science: 93, English: 88, Social: 91, Computer: 94},
	{StudentID: 109, Name: "Ethan Taylor", ClassLabel: "10B", Math: 80, Science: 83, English: 78, Social: 81, Computer: 85},
	{StudentID: 110, Name: "Isabella Thomas", ClassLabel: "10A", Math: 87, Science: 89, English: 84, Social: 86, Computer: 90},
	{StudentID: 111, Name: "Mason Lee", ClassLabel: "10B", Math: 92, Science: 95, English: 90, Social: 93, Computer: 96},
	{StudentID: 112, Name: "Charlotte White", ClassLabel: "10A", Math: 83, Science: 86, English: 81, Social: 84, Computer: 87},
	{StudentID: 113, Name: "Lucas Harris", ClassLabel: "10B", Math: 76, Science: 79, English: 74, Social: 77, Computer: 81},
	{StudentID: 114, Name: "Amelia Clark", ClassLabel: "10A", Math: 94, Science: 96, English: 91, Social: 93, Computer: 97},
	{StudentID: 115, Name: "Henry Lewis", ClassLabel: "10B", Math: 81, Science: 84, English: 79, Social: 82, Computer: 86},
}

// StaticStudentRepository serves the compiled-in roster.
type StaticStudentRepository struct {
	records []models.StudentRecord
}

// NewStaticStudentRepository returns a repository over the default roster.
func NewStaticStudentRepository() *StaticStudentRepository {
	return &StaticStudentRepository{records: defaultRoster}
}

// NewStaticStudentRepositoryFrom serves the given records instead of the default roster.
func NewStaticStudentRepositoryFrom(records []models.StudentRecord) *StaticStudentRepository {
	return &StaticStudentRepository{records: records}
}

// List returns a copy of the roster in its declared order.
func (r *StaticStudentRepository) List(ctx context.Context) ([]models.StudentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.StudentRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

// StudentRepository reads the roster from PostgreSQL.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by id, which is the roster's input order.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentRecord, error) {
	query := `SELECT student_id, name, class_label, math, science, english, social, computer
        FROM student_marks ORDER BY student_id`
	var students []models.StudentRecord
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list student marks: %w", err)
	}
	return students, nil
}
