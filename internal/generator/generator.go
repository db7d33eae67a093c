// Package generator produces the seeded synthetic raw tables the rest of the
// system ingests. The same seed always yields the same dataset, including the
// deliberately dirty rows (duplicate enrollments, missing ages, dropouts and
// missed exams) the cleaner is expected to repair.
package generator

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

// Departments is the fixed set of departments students are drawn from.
var Departments = []string{"Arts", "Business", "Computer Science", "Engineering", "Science"}

// departmentCourses maps each department to its four-course catalog.
// Students only enroll in courses from their own department.
var departmentCourses = map[string][]string{
	"Engineering":      {"Engineering Mathematics", "Thermodynamics", "Digital Electronics", "Control Systems"},
	"Computer Science": {"Data Structures and Algorithms", "Database Management Systems", "Operating Systems", "Machine Learning"},
	"Science":          {"Physics - Mechanics", "Organic Chemistry", "Cell Biology", "Environmental Science"},
	"Arts":             {"History of Modern World", "Political Theory", "Sociology of Culture", "Philosophy of Ethics"},
	"Business":         {"Principles of Management", "Financial Accounting", "Marketing Management", "Business Analytics"},
}

var semesters = []string{"Fall 2023", "Spring 2024"}

// Config controls dataset size, the random seed, and the dirty-data rates.
type Config struct {
	Students             int     `validate:"gte=1"`
	Seed                 int64
	MissingAgeRate       float64 `validate:"gte=0,lte=1"`
	DuplicateEnrollments int     `validate:"gte=0"`
	DropoutRate          float64 `validate:"gte=0,lte=1"`
	MissedExamRate       float64 `validate:"gte=0,lte=1"`
}

// DefaultConfig returns the standard dirty-data rates for a dataset of the
// given size.
func DefaultConfig(students int, seed int64) Config {
	return Config{
		Students:             students,
		Seed:                 seed,
		MissingAgeRate:       0.05,
		DuplicateEnrollments: 15,
		DropoutRate:          0.03,
		MissedExamRate:       0.02,
	}
}

// Dataset holds the three generated raw tables.
type Dataset struct {
	Students    []domain.Student
	Enrollments []domain.Enrollment
	Grades      []domain.GradeRecord
}

// Generator produces deterministic synthetic datasets.
type Generator struct {
	cfg    Config
	faker  *gofakeit.Faker
	rng    *rand.Rand
	logger *slog.Logger
}

// New validates cfg and builds a seeded generator.
func New(cfg Config, logger *slog.Logger) (*Generator, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid generator config: %s", err))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:    cfg,
		faker:  gofakeit.New(cfg.Seed),
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
	}, nil
}

// Generate builds the full dataset. Callers persist it with the exporter.
func (g *Generator) Generate() Dataset {
	courseIDs := courseCatalog()

	students := g.generateStudents()
	var enrollments []domain.Enrollment
	var grades []domain.GradeRecord

	for _, student := range students {
		catalog := departmentCourses[student.Department]
		taken := g.sampleCourses(catalog, 2+g.rng.Intn(2))
		for _, courseName := range taken {
			courseID := courseIDs[courseName]
			enrollments = append(enrollments, domain.Enrollment{
				EnrollmentID: g.enrollmentID(),
				StudentID:    student.StudentID,
				CourseID:     courseID,
				CourseName:   courseName,
				Semester:     semesters[g.rng.Intn(len(semesters))],
			})
			grades = append(grades, g.generateGrade(student.StudentID, courseID))
		}
	}

	enrollments = g.injectDuplicates(enrollments)
	g.injectMissingFinals(grades)

	g.logger.Info("synthetic dataset generated",
		slog.Int("students", len(students)),
		slog.Int("enrollments", len(enrollments)),
		slog.Int("grades", len(grades)),
		slog.Int64("seed", g.cfg.Seed))

	return Dataset{Students: students, Enrollments: enrollments, Grades: grades}
}

func (g *Generator) generateStudents() []domain.Student {
	students := make([]domain.Student, 0, g.cfg.Students)
	for i := 1; i <= g.cfg.Students; i++ {
		age := null.Float64From(float64(18 + g.rng.Intn(9)))
		if g.rng.Float64() < g.cfg.MissingAgeRate {
			age = null.Float64{}
		}
		students = append(students, domain.Student{
			StudentID:     fmt.Sprintf("STU%04d", i),
			Name:          g.faker.Name(),
			Age:           age,
			Gender:        []string{"M", "F", "Other"}[g.rng.Intn(3)],
			Department:    Departments[g.rng.Intn(len(Departments))],
			AdmissionYear: 2019 + g.rng.Intn(6),
		})
	}
	return students
}

// sampleCourses picks n distinct courses, preserving deterministic order of
// selection for a fixed seed.
func (g *Generator) sampleCourses(catalog []string, n int) []string {
	indexes := g.rng.Perm(len(catalog))[:n]
	picked := make([]string, n)
	for i, idx := range indexes {
		picked[i] = catalog[idx]
	}
	return picked
}

func (g *Generator) generateGrade(studentID, courseID string) domain.GradeRecord {
	lmsHours := round1(5 + g.rng.Float64()*145)

	// Final grade tracks LMS engagement with bounded noise; attendance and
	// midterm derive from the same signal so the columns correlate.
	baseScore := 40 + (lmsHours/150.0)*55
	finalGrade := clamp(baseScore+g.uniform(-10, 10), 0, 100)
	attendance := clamp((lmsHours/150.0)*100+g.uniform(-5, 15), 20, 100)
	midterm := round1(finalGrade*0.8 + g.uniform(-10, 12))

	return domain.GradeRecord{
		StudentID:      studentID,
		CourseID:       courseID,
		LMSHours:       null.Float64From(lmsHours),
		AttendanceRate: null.Float64From(round2(attendance)),
		MidtermGrade:   null.Float64From(midterm),
		FinalGrade:     null.Float64From(round1(finalGrade)),
	}
}

// injectDuplicates appends exact copies of randomly chosen enrollment rows.
func (g *Generator) injectDuplicates(enrollments []domain.Enrollment) []domain.Enrollment {
	n := g.cfg.DuplicateEnrollments
	if n > len(enrollments) {
		n = len(enrollments)
	}
	for _, idx := range g.rng.Perm(len(enrollments))[:n] {
		enrollments = append(enrollments, enrollments[idx])
	}
	return enrollments
}

// injectMissingFinals blanks final grades for a dropout fraction (with low
// attendance) and a missed-exam fraction (with high attendance). The two
// groups never overlap.
func (g *Generator) injectMissingFinals(grades []domain.GradeRecord) {
	perm := g.rng.Perm(len(grades))
	dropouts := int(float64(len(grades)) * g.cfg.DropoutRate)
	missed := int(float64(len(grades)) * g.cfg.MissedExamRate)
	if dropouts+missed > len(grades) {
		missed = len(grades) - dropouts
	}

	for _, idx := range perm[:dropouts] {
		grades[idx].FinalGrade = null.Float64{}
		grades[idx].AttendanceRate = null.Float64From(round1(g.uniform(5, 30)))
	}
	for _, idx := range perm[dropouts : dropouts+missed] {
		grades[idx].FinalGrade = null.Float64{}
		grades[idx].AttendanceRate = null.Float64From(round1(g.uniform(85, 100)))
	}
}

// enrollmentID draws a UUID from the generator's own randomness source so
// runs with the same seed produce identical identifiers.
func (g *Generator) enrollmentID() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand.Read never fails.
		panic(err)
	}
	return id.String()
}

func (g *Generator) uniform(low, high float64) float64 {
	return low + g.rng.Float64()*(high-low)
}

// courseCatalog assigns stable CRS### identifiers to the course names,
// flattened in department name order.
func courseCatalog() map[string]string {
	departments := make([]string, 0, len(departmentCourses))
	for dept := range departmentCourses {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	ids := make(map[string]string)
	i := 1
	for _, dept := range departments {
		for _, name := range departmentCourses[dept] {
			ids[name] = fmt.Sprintf("CRS%03d", i)
			i++
		}
	}
	return ids
}

func clamp(v, low, high float64) float64 {
	return math.Min(high, math.Max(low, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
