package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bioweb/backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRepository defines the persistence interface for contact messages.
// It is defined here (in repository) to avoid an import cycle with service.
type ContactRepository interface {
	Save(ctx context.Context, msg *model.ContactMessage) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*model.ContactMessage, error)
	// MarkRead flags the message read, bumps its read counter and returns the new state.
	MarkRead(ctx context.Context, id int64) (*model.ContactMessage, error)
	Update(ctx context.Context, msg *model.ContactMessage) error
	Delete(ctx context.Context, id int64) error
	CountUnread(ctx context.Context) (int, error)
}

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

const contactColumns = `id, full_name, email, message, is_read, read_count, version, sent_at`

func scanContact(row pgx.Row) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := row.Scan(&m.ID, &m.FullName, &m.Email, &m.Message, &m.IsRead, &m.ReadCount, &m.Version, &m.SentAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save inserts a new contact_messages row and populates msg.ID and SentAt
// from the database RETURNING clause.
func (r *PgContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contact_messages (full_name, email, message)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_read, read_count, version, sent_at`,
		msg.FullName, msg.Email, msg.Message,
	).Scan(&msg.ID, &msg.IsRead, &msg.ReadCount, &msg.Version, &msg.SentAt)
}

// List returns contact messages filtered by read state and paginated by limit/offset.
// Status "" or "all" returns all messages.
func (r *PgContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	var where string
	switch strings.TrimSpace(opts.Status) {
	case "read":
		where = "WHERE is_read "
	case "unread":
		where = "WHERE NOT is_read "
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+contactColumns+` FROM contact_messages `+where+
			`ORDER BY sent_at DESC, id DESC LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*model.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PgContactRepository) GetByID(ctx context.Context, id int64) (*model.ContactMessage, error) {
	m, err := scanContact(r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *PgContactRepository) MarkRead(ctx context.Context, id int64) (*model.ContactMessage, error) {
	m, err := scanContact(r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET is_read = TRUE, read_count = read_count + 1, version = version + 1
		 WHERE id = $1 RETURNING `+contactColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

func (r *PgContactRepository) Update(ctx context.Context, msg *model.ContactMessage) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE contact_messages SET full_name = $2, email = $3, is_read = $4, version = version + 1
		 WHERE id = $1 AND ($5 = 0 OR version = $5)
		 RETURNING message, read_count, version, sent_at`,
		msg.ID, msg.FullName, msg.Email, msg.IsRead, msg.Version,
	).Scan(&msg.Message, &msg.ReadCount, &msg.Version, &msg.SentAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return missedUpdate(ctx, r.pool, "contact_messages", msg.ID)
	}
	if err != nil {
		return fmt.Errorf("update contact %d: %w", msg.ID, err)
	}
	return nil
}

func (r *PgContactRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages WHERE NOT is_read`).Scan(&n)
	return n, err
}
