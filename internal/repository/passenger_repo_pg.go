package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

type SavedPassengerRepository interface {
	List(ctx context.Context, query string) ([]domain.SavedPassenger, error)
	GetByID(ctx context.Context, id string) (*domain.SavedPassenger, error)
	Create(ctx context.Context, passenger *domain.SavedPassenger) error
	Update(ctx context.Context, passenger *domain.SavedPassenger) error
	Delete(ctx context.Context, id string) error
}

type PGSavedPassengerRepository struct {
	db *pgxpool.Pool
}

func NewSavedPassengerRepository(db *pgxpool.Pool) SavedPassengerRepository {
	return &PGSavedPassengerRepository{db: db}
}

const savedPassengerColumns = `id, organization_id, title, first_name, last_name, middle_name, date_of_birth, gender, email, phone, nationality, document_type, document_number, document_issuing_country, document_expiry_date, created_by, created_at, updated_at`

func (r *PGSavedPassengerRepository) List(ctx context.Context, query string) ([]domain.SavedPassenger, error) {
	sql := `SELECT ` + savedPassengerColumns + ` FROM saved_passengers`
	args := []interface{}{}
	if query != "" {
		sql += ` WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}
	sql += ` ORDER BY last_name, first_name`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.SavedPassenger, 0)
	for rows.Next() {
		p, err := scanSavedPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, *p)
	}
	return passengers, rows.Err()
}

func (r *PGSavedPassengerRepository) GetByID(ctx context.Context, id string) (*domain.SavedPassenger, error) {
	row := r.db.QueryRow(ctx, `SELECT `+savedPassengerColumns+` FROM saved_passengers WHERE id=$1`, id)
	p, err := scanSavedPassenger(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(err, errs.ErrPassengerNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *PGSavedPassengerRepository) Create(ctx context.Context, p *domain.SavedPassenger) error {
	_, err := r.db.Exec(ctx, `INSERT INTO saved_passengers (`+savedPassengerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		p.ID, p.OrganizationID, p.Title, p.FirstName, p.LastName, p.MiddleName, p.DateOfBirth, p.Gender,
		p.Email, p.Phone, p.Nationality, p.DocumentType, p.DocumentNumber, p.DocumentIssuingCountry,
		p.DocumentExpiryDate, p.CreatedBy, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PGSavedPassengerRepository) Update(ctx context.Context, p *domain.SavedPassenger) error {
	cmd, err := r.db.Exec(ctx, `UPDATE saved_passengers SET title=$1, first_name=$2, last_name=$3, middle_name=$4, date_of_birth=$5, gender=$6, email=$7, phone=$8, nationality=$9, document_type=$10, document_number=$11, document_issuing_country=$12, document_expiry_date=$13, updated_at=$14 WHERE id=$15`,
		p.Title, p.FirstName, p.LastName, p.MiddleName, p.DateOfBirth, p.Gender, p.Email, p.Phone,
		p.Nationality, p.DocumentType, p.DocumentNumber, p.DocumentIssuingCountry, p.DocumentExpiryDate,
		p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errs.ErrPassengerNotFound
	}
	return nil
}

func (r *PGSavedPassengerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM saved_passengers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errs.ErrPassengerNotFound
	}
	return nil
}

func scanSavedPassenger(row pgx.Row) (*domain.SavedPassenger, error) {
	var p domain.SavedPassenger
	if err := row.Scan(&p.ID, &p.OrganizationID, &p.Title, &p.FirstName, &p.LastName, &p.MiddleName,
		&p.DateOfBirth, &p.Gender, &p.Email, &p.Phone, &p.Nationality, &p.DocumentType,
		&p.DocumentNumber, &p.DocumentIssuingCountry, &p.DocumentExpiryDate,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ SavedPassengerRepository = (*PGSavedPassengerRepository)(nil)
