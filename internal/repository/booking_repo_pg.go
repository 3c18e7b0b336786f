package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viyahe/corptravel/internal/domain"
	"github.com/viyahe/corptravel/internal/errs"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	AddDocument(ctx context.Context, doc *domain.Document) error
	RemoveDocument(ctx context.Context, bookingID, documentID string) (bool, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	request, err := json.Marshal(booking.Request)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO bookings (id, status, request, original_price_cents, final_price_cents, currency, agent_notes, rejection_reason, agent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		booking.ID, booking.Status, request, booking.OriginalPrice, booking.FinalPrice, booking.Currency,
		booking.AgentNotes, booking.RejectionReason, booking.AgentID, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errs.Mark(err, errs.ErrDuplicateBooking)
		}
		return err
	}
	return nil
}

func (r *PGBookingRepository) List(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	query := `SELECT id, status, request, original_price_cents, final_price_cents, currency, agent_notes, rejection_reason, agent_id, created_at, updated_at, confirmed_at, rejected_at, fulfilled_at FROM bookings`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status=$1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	ids := make([]string, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	docs, err := r.documentsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].Documents = docs[bookings[i].ID]
	}
	return bookings, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, status, request, original_price_cents, final_price_cents, currency, agent_notes, rejection_reason, agent_id, created_at, updated_at, confirmed_at, rejected_at, fulfilled_at FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}

	docs, err := r.documentsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	b.Documents = docs[id]
	return b, nil
}

func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET status=$1, agent_notes=$2, rejection_reason=$3, agent_id=$4, updated_at=$5, confirmed_at=$6, rejected_at=$7, fulfilled_at=$8 WHERE id=$9`,
		booking.Status, booking.AgentNotes, booking.RejectionReason, booking.AgentID,
		booking.UpdatedAt, booking.ConfirmedAt, booking.RejectedAt, booking.FulfilledAt, booking.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errs.ErrBookingNotFound
	}
	return nil
}

func (r *PGBookingRepository) AddDocument(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.Exec(ctx, `INSERT INTO booking_documents (id, booking_id, type, file_name, file_size, mime_type, data_url, uploaded_at, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.BookingID, doc.Type, doc.FileName, doc.FileSize, doc.MIMEType, doc.DataURL, doc.UploadedAt, doc.UploadedBy)
	return err
}

func (r *PGBookingRepository) RemoveDocument(ctx context.Context, bookingID, documentID string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM booking_documents WHERE id=$1 AND booking_id=$2`, documentID, bookingID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGBookingRepository) documentsFor(ctx context.Context, bookingIDs []string) (map[string][]domain.Document, error) {
	docs := make(map[string][]domain.Document, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return docs, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, type, file_name, file_size, mime_type, data_url, uploaded_at, uploaded_by FROM booking_documents WHERE booking_id = ANY($1) ORDER BY uploaded_at`, bookingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.BookingID, &d.Type, &d.FileName, &d.FileSize, &d.MIMEType, &d.DataURL, &d.UploadedAt, &d.UploadedBy); err != nil {
			return nil, err
		}
		docs[d.BookingID] = append(docs[d.BookingID], d)
	}
	return docs, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var request []byte
	if err := row.Scan(&b.ID, &b.Status, &request, &b.OriginalPrice, &b.FinalPrice, &b.Currency,
		&b.AgentNotes, &b.RejectionReason, &b.AgentID, &b.CreatedAt, &b.UpdatedAt,
		&b.ConfirmedAt, &b.RejectedAt, &b.FulfilledAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(request, &b.Request); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
