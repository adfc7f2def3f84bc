package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard_backend/internal/analytics/segment"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Job represents the jobs database model with its optional detail row.
type Job struct {
	ID                uuid.UUID  `db:"id"`
	Title             string     `db:"title"`
	Type              *string    `db:"type"`
	Category          *string    `db:"category"`
	Area              *string    `db:"area"`
	SearchAreas       []string   `db:"search_areas"`
	Salary            *string    `db:"salary"`
	HourlyWage        *int       `db:"hourly_wage"`
	SalaryDescription *string    `db:"salary_description"`
	Description       *string    `db:"description"`
	Requirements      *string    `db:"requirements"`
	WorkingHours      *string    `db:"working_hours"`
	Holidays          []string   `db:"holidays"`
	Benefits          []string   `db:"benefits"`
	Tags              []string   `db:"tags"`
	SelectionProcess  *string    `db:"selection_process"`
	NearestStation    *string    `db:"nearest_station"`
	WorkplaceName     *string    `db:"workplace_name"`
	WorkplaceAddress  *string    `db:"workplace_address"`
	WorkplaceAccess   *string    `db:"workplace_access"`
	AttireType        *string    `db:"attire_type"`
	HairStyle         *string    `db:"hair_style"`
	StartDate         *string    `db:"start_date"`
	Period            *string    `db:"period"`
	ExpiresAt         *time.Time `db:"expires_at"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`

	Dispatch *DispatchDetails
	Fulltime *FulltimeDetails
}

type DispatchDetails struct {
	ClientCompanyName *string
	TrainingPeriod    *string
	TrainingSalary    *string
	ActualWorkHours   *string
	WorkDaysPerWeek   *string
	EndDate           *string
	NailPolicy        *string
	GeneralNotes      *string
}

type FulltimeDetails struct {
	CompanyName         *string
	Industry            *string
	CompanyOverview     *string
	CompanySize         *string
	AnnualSalaryMin     *int
	AnnualSalaryMax     *int
	OvertimeHours       *string
	AnnualHolidays      *string
	ProbationPeriod     *string
	ProbationDetails    *string
	AppealPoints        *string
	WelcomeRequirements *string
}

// Option is a row of job_options.
type Option struct {
	ID        uuid.UUID
	Category  string
	Label     string
	Value     string
	SortOrder int
}

// ListFilter narrows the public listing.
type ListFilter struct {
	Area  string
	Type  string
	Tag   string
	Limit int
}

// View is a job_views row to insert.
type View struct {
	JobID     uuid.UUID
	UserID    *uuid.UUID
	IPHash    string
	UserAgent *string
	Referrer  *string
	IsBot     bool
}

// Repository provides database operations for jobs, job options and the
// public tracking tables.
type Repository struct {
	pool *pgxpool.Pool
}

const jobNotFoundMsg = "job not found"

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `j.id, j.title, j.type, j.category, j.area, j.search_areas, j.salary, j.hourly_wage,
	j.salary_description, j.description, j.requirements, j.working_hours, j.holidays, j.benefits,
	j.tags, j.selection_process, j.nearest_station, j.workplace_name, j.workplace_address,
	j.workplace_access, j.attire_type, j.hair_style, j.start_date, j.period, j.expires_at,
	j.created_at, j.updated_at`

const activeClause = `(j.expires_at IS NULL OR j.expires_at > now())`

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Type, &j.Category, &j.Area, &j.SearchAreas, &j.Salary, &j.HourlyWage,
		&j.SalaryDescription, &j.Description, &j.Requirements, &j.WorkingHours, &j.Holidays, &j.Benefits,
		&j.Tags, &j.SelectionProcess, &j.NearestStation, &j.WorkplaceName, &j.WorkplaceAddress,
		&j.WorkplaceAccess, &j.AttireType, &j.HairStyle, &j.StartDate, &j.Period, &j.ExpiresAt,
		&j.CreatedAt, &j.UpdatedAt,
	)
	return j, err
}

func collectJobs(rows pgx.Rows) ([]Job, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Job, error) {
		return scanJob(row)
	})
}

// ListActive returns jobs that have not expired, newest first.
func (r *Repository) ListActive(ctx context.Context, f ListFilter) ([]Job, error) {
	var (
		conditions = []string{activeClause}
		args       []any
	)
	if area := strings.TrimSpace(f.Area); area != "" {
		args = append(args, "%"+area+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(j.area ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(j.search_areas) sa WHERE sa ILIKE $%d))", n, n))
	}
	if jobType := strings.TrimSpace(f.Type); jobType != "" {
		args = append(args, "%"+jobType+"%")
		conditions = append(conditions, fmt.Sprintf("j.type ILIKE $%d", len(args)))
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		args = append(args, tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(j.tags)", len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY j.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return jobs, nil
}

// ListRecentActiveExcept returns the newest active jobs other than id.
func (r *Repository) ListRecentActiveExcept(ctx context.Context, id uuid.UUID, limit int) ([]Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs j
		WHERE j.id <> $1 AND `+activeClause+`
		ORDER BY j.created_at DESC LIMIT $2`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation candidates: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation candidates: %w", err)
	}
	return jobs, nil
}

// SearchByArea matches area or any search area partially.
func (r *Repository) SearchByArea(ctx context.Context, area, jobType string, limit int) ([]Job, error) {
	return r.ListActive(ctx, ListFilter{Area: area, Type: jobType, Limit: limit})
}

// GetByID loads a job and whichever detail row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Job{}, apperr.NotFound(jobNotFoundMsg)
		}
		return Job{}, fmt.Errorf("failed to get job: %w", err)
	}

	dispatch, err := r.getDispatchDetails(ctx, id)
	if err != nil {
		return Job{}, err
	}
	fulltime, err := r.getFulltimeDetails(ctx, id)
	if err != nil {
		return Job{}, err
	}
	j.Dispatch = dispatch
	j.Fulltime = fulltime
	return j, nil
}

func (r *Repository) getDispatchDetails(ctx context.Context, jobID uuid.UUID) (*DispatchDetails, error) {
	var d DispatchDetails
	err := r.pool.QueryRow(ctx, `SELECT client_company_name, training_period, training_salary,
		actual_work_hours, work_days_per_week, end_date, nail_policy, general_notes
		FROM dispatch_job_details WHERE job_id = $1`, jobID).Scan(
		&d.ClientCompanyName, &d.TrainingPeriod, &d.TrainingSalary, &d.ActualWorkHours,
		&d.WorkDaysPerWeek, &d.EndDate, &d.NailPolicy, &d.GeneralNotes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dispatch details: %w", err)
	}
	return &d, nil
}

func (r *Repository) getFulltimeDetails(ctx context.Context, jobID uuid.UUID) (*FulltimeDetails, error) {
	var d FulltimeDetails
	err := r.pool.QueryRow(ctx, `SELECT company_name, industry, company_overview, company_size,
		annual_salary_min, annual_salary_max, overtime_hours, annual_holidays, probation_period,
		probation_details, appeal_points, welcome_requirements
		FROM fulltime_job_details WHERE job_id = $1`, jobID).Scan(
		&d.CompanyName, &d.Industry, &d.CompanyOverview, &d.CompanySize, &d.AnnualSalaryMin,
		&d.AnnualSalaryMax, &d.OvertimeHours, &d.AnnualHolidays, &d.ProbationPeriod,
		&d.ProbationDetails, &d.AppealPoints, &d.WelcomeRequirements,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fulltime details: %w", err)
	}
	return &d, nil
}

// Exists reports whether a job row exists, expired or not.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check job: %w", err)
	}
	return exists, nil
}

// Create inserts the job and its detail row in one transaction.
func (r *Repository) Create(ctx context.Context, j Job) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO jobs (
			title, type, category, area, search_areas, salary, hourly_wage, salary_description,
			description, requirements, working_hours, holidays, benefits, tags, selection_process,
			nearest_station, workplace_name, workplace_address, workplace_access, attire_type,
			hair_style, start_date, period, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24
		) RETURNING id`,
		j.Title, j.Type, j.Category, j.Area, nonNil(j.SearchAreas), j.Salary, j.HourlyWage, j.SalaryDescription,
		j.Description, j.Requirements, j.WorkingHours, nonNil(j.Holidays), nonNil(j.Benefits), nonNil(j.Tags),
		j.SelectionProcess, j.NearestStation, j.WorkplaceName, j.WorkplaceAddress, j.WorkplaceAccess,
		j.AttireType, j.HairStyle, j.StartDate, j.Period, j.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := writeDetails(ctx, tx, id, j); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit job: %w", err)
	}
	return id, nil
}

// Update replaces the job columns and swaps the detail row when the
// employment segment changed.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, j Job) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE jobs SET
			title = $2, type = $3, category = $4, area = $5, search_areas = $6, salary = $7,
			hourly_wage = $8, salary_description = $9, description = $10, requirements = $11,
			working_hours = $12, holidays = $13, benefits = $14, tags = $15, selection_process = $16,
			nearest_station = $17, workplace_name = $18, workplace_address = $19,
			workplace_access = $20, attire_type = $21, hair_style = $22, start_date = $23,
			period = $24, expires_at = $25, updated_at = now()
		WHERE id = $1`,
		id, j.Title, j.Type, j.Category, j.Area, nonNil(j.SearchAreas), j.Salary, j.HourlyWage,
		j.SalaryDescription, j.Description, j.Requirements, j.WorkingHours, nonNil(j.Holidays),
		nonNil(j.Benefits), nonNil(j.Tags), j.SelectionProcess, j.NearestStation, j.WorkplaceName,
		j.WorkplaceAddress, j.WorkplaceAccess, j.AttireType, j.HairStyle, j.StartDate, j.Period, j.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMsg)
	}

	if err := writeDetails(ctx, tx, id, j); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit job: %w", err)
	}
	return nil
}

// writeDetails keeps exactly the detail row matching the job's segment.
func writeDetails(ctx context.Context, tx pgx.Tx, id uuid.UUID, j Job) error {
	seg := segment.Detect(j.Type)

	if seg != segment.Dispatch {
		if _, err := tx.Exec(ctx, `DELETE FROM dispatch_job_details WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear dispatch details: %w", err)
		}
	}
	if seg != segment.Fulltime {
		if _, err := tx.Exec(ctx, `DELETE FROM fulltime_job_details WHERE job_id = $1`, id); err != nil {
			return fmt.Errorf("failed to clear fulltime details: %w", err)
		}
	}

	switch seg {
	case segment.Dispatch:
		d := j.Dispatch
		if d == nil {
			d = &DispatchDetails{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO dispatch_job_details (
				job_id, client_company_name, training_period, training_salary, actual_work_hours,
				work_days_per_week, end_date, nail_policy, general_notes
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (job_id) DO UPDATE SET
				client_company_name = EXCLUDED.client_company_name,
				training_period = EXCLUDED.training_period,
				training_salary = EXCLUDED.training_salary,
				actual_work_hours = EXCLUDED.actual_work_hours,
				work_days_per_week = EXCLUDED.work_days_per_week,
				end_date = EXCLUDED.end_date,
				nail_policy = EXCLUDED.nail_policy,
				general_notes = EXCLUDED.general_notes`,
			id, d.ClientCompanyName, d.TrainingPeriod, d.TrainingSalary, d.ActualWorkHours,
			d.WorkDaysPerWeek, d.EndDate, d.NailPolicy, d.GeneralNotes,
		)
		if err != nil {
			return fmt.Errorf("failed to write dispatch details: %w", err)
		}
	case segment.Fulltime:
		d := j.Fulltime
		if d == nil {
			d = &FulltimeDetails{}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO fulltime_job_details (
				job_id, company_name, industry, company_overview, company_size, annual_salary_min,
				annual_salary_max, overtime_hours, annual_holidays, probation_period,
				probation_details, appeal_points, welcome_requirements
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (job_id) DO UPDATE SET
				company_name = EXCLUDED.company_name,
				industry = EXCLUDED.industry,
				company_overview = EXCLUDED.company_overview,
				company_size = EXCLUDED.company_size,
				annual_salary_min = EXCLUDED.annual_salary_min,
				annual_salary_max = EXCLUDED.annual_salary_max,
				overtime_hours = EXCLUDED.overtime_hours,
				annual_holidays = EXCLUDED.annual_holidays,
				probation_period = EXCLUDED.probation_period,
				probation_details = EXCLUDED.probation_details,
				appeal_points = EXCLUDED.appeal_points,
				welcome_requirements = EXCLUDED.welcome_requirements`,
			id, d.CompanyName, d.Industry, d.CompanyOverview, d.CompanySize, d.AnnualSalaryMin,
			d.AnnualSalaryMax, d.OvertimeHours, d.AnnualHolidays, d.ProbationPeriod,
			d.ProbationDetails, d.AppealPoints, d.WelcomeRequirements,
		)
		if err != nil {
			return fmt.Errorf("failed to write fulltime details: %w", err)
		}
	}
	return nil
}

// Delete removes a job. Detail rows, views and applications cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(jobNotFoundMsg)
	}
	return nil
}

// ListOptions returns job_options of a category in display order. An empty
// category lists every option grouped by category.
func (r *Repository) ListOptions(ctx context.Context, category string) ([]Option, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, category, label, value, sort_order FROM job_options
		WHERE $1::text = '' OR category = $1 ORDER BY category, sort_order, label`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list job options: %w", err)
	}
	options, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Option, error) {
		var o Option
		err := row.Scan(&o.ID, &o.Category, &o.Label, &o.Value, &o.SortOrder)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan job options: %w", err)
	}
	return options, nil
}

// CreateOption inserts a job option. A zero sort order places it after the
// category's last option.
func (r *Repository) CreateOption(ctx context.Context, o Option) (Option, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO job_options (category, label, value, sort_order)
		VALUES ($1, $2, $3, CASE WHEN $4::int > 0 THEN $4::int ELSE
			(SELECT COALESCE(MAX(sort_order), 0) + 10 FROM job_options WHERE category = $1) END)
		RETURNING id, sort_order`,
		o.Category, o.Label, o.Value, o.SortOrder).Scan(&o.ID, &o.SortOrder)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Option{}, apperr.Conflict("option already exists in this category")
		}
		return Option{}, fmt.Errorf("failed to create job option: %w", err)
	}
	return o, nil
}

// DeleteOption removes a job option.
func (r *Repository) DeleteOption(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM job_options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("job option not found")
	}
	return nil
}

// InsertView stores one job view.
func (r *Repository) InsertView(ctx context.Context, v View) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO job_views (job_id, user_id, ip_hash, user_agent, referrer, is_bot)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		v.JobID, v.UserID, v.IPHash, v.UserAgent, v.Referrer, v.IsBot)
	if err != nil {
		return fmt.Errorf("failed to insert job view: %w", err)
	}
	return nil
}

// HasRecentView reports whether the viewer already has a view of the job
// since the given time. The user id wins over the ip hash when present.
func (r *Repository) HasRecentView(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID, ipHash string, since time.Time) (bool, error) {
	var (
		exists bool
		err    error
	)
	if userID != nil {
		err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_views
			WHERE job_id = $1 AND user_id = $2 AND viewed_at >= $3)`, jobID, *userID, since).Scan(&exists)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM job_views
			WHERE job_id = $1 AND ip_hash = $2 AND viewed_at >= $3)`, jobID, ipHash, since).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check recent view: %w", err)
	}
	return exists, nil
}

// InsertBookingClick stores a booking button click.
func (r *Repository) InsertBookingClick(ctx context.Context, jobID uuid.UUID, userID *uuid.UUID, clickType string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO booking_clicks (job_id, user_id, click_type) VALUES ($1, $2, $3)`,
		jobID, userID, clickType)
	if err != nil {
		return fmt.Errorf("failed to insert booking click: %w", err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
