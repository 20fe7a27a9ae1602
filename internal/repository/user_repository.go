package repository

import (
	"context"
	"fmt"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, role, fio, birth_date, phone, office_address, specialty,
		website_link, photo_file_id, registration_date, weekends`

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		weekends []string
	)
	err := row.Scan(
		&u.ID,
		&u.Registration.Role,
		&u.Registration.FIO,
		&u.Registration.BirthDate,
		&u.Registration.Phone,
		&u.Registration.OfficeAddress,
		&u.Registration.Specialty,
		&u.Registration.WebsiteLink,
		&u.Registration.PhotoFileID,
		&u.Registration.RegistrationDate,
		&weekends,
	)
	if err != nil {
		return nil, err
	}

	u.Weekends, err = model.ParseDayOffSet(weekends)
	if err != nil {
		return nil, fmt.Errorf("user %d weekends: %w", u.ID, err)
	}
	return &u, nil
}

// Upsert создаёт или обновляет анкету пользователя. Выходные не трогаются.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, role, fio, birth_date, phone, office_address, specialty, website_link, photo_file_id, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			role = EXCLUDED.role,
			fio = EXCLUDED.fio,
			birth_date = EXCLUDED.birth_date,
			phone = EXCLUDED.phone,
			office_address = EXCLUDED.office_address,
			specialty = EXCLUDED.specialty,
			website_link = EXCLUDED.website_link,
			photo_file_id = EXCLUDED.photo_file_id
	`

	reg := u.Registration
	_, err := r.Pool().Exec(
		ctx, query,
		u.ID,
		reg.Role,
		reg.FIO,
		reg.BirthDate,
		reg.Phone,
		reg.OfficeAddress,
		reg.Specialty,
		reg.WebsiteLink,
		reg.PhotoFileID,
		reg.RegistrationDate,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// GetByID получает пользователя или nil
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.Pool().QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// ListDoctors получает всех врачей
func (r *UserRepository) ListDoctors(ctx context.Context) ([]*model.User, error) {
	rows, err := r.Pool().Query(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var doctors []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, u)
	}
	return doctors, rows.Err()
}

// UpdateWeekends заменяет выходные врача
func (r *UserRepository) UpdateWeekends(ctx context.Context, id int64, weekends model.DayOffSet) error {
	affected, err := r.ExecAffected(ctx, `UPDATE users SET weekends = $1 WHERE id = $2`, weekends.Strings(), id)
	if err != nil {
		return fmt.Errorf("update weekends: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update weekends: %w", model.ErrNotFound)
	}
	return nil
}
