package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserRepository
	now      func() time.Time
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, now func() time.Time, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      now,
		logger:   logger,
	}
}

// Register регистрирует пользователя или меняет роль и ФИО уже существующего
func (s *UserService) Register(ctx context.Context, id int64, role model.Role, fio string) (*model.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidRole, role)
	}
	fio = strings.Join(strings.Fields(fio), " ")
	if fio == "" {
		return nil, model.ErrInvalidFIO
	}

	existingUser, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные
	if existingUser != nil {
		existingUser.Registration.Role = role
		existingUser.Registration.FIO = fio

		if err := s.userRepo.Upsert(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("user_id", id),
			zap.String("role", string(role)),
		)
		return existingUser, nil
	}

	user := &model.User{
		ID:           id,
		Registration: model.NewRegistration(role, fio, s.now()),
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", id),
		zap.String("role", string(role)),
	)
	return user, nil
}

// Get получает пользователя, nil если он не зарегистрирован
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Require получает зарегистрированного пользователя
func (s *UserService) Require(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrNotFound
	}
	return user, nil
}

// RequireDoctor получает пользователя и проверяет, что он врач
func (s *UserService) RequireDoctor(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.Require(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsDoctor() {
		return nil, model.ErrNotDoctor
	}
	return user, nil
}

// UpdateContacts проверяет и сохраняет дату рождения и телефон
func (s *UserService) UpdateContacts(ctx context.Context, id int64, birthDate, phone string) (*model.User, error) {
	user, err := s.Require(ctx, id)
	if err != nil {
		return nil, err
	}

	birthDate = strings.TrimSpace(birthDate)
	if err := model.ValidateBirthDate(birthDate, s.now()); err != nil {
		return nil, err
	}
	normalized, err := model.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	user.Registration.BirthDate = birthDate
	user.Registration.Phone = normalized
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("update contacts: %w", err)
	}
	return user, nil
}

// UpdateDoctorProfile сохраняет адрес кабинета и специальность врача.
// Пустые значения сохраняются как "не указано".
func (s *UserService) UpdateDoctorProfile(ctx context.Context, id int64, officeAddress, specialty string) (*model.User, error) {
	user, err := s.RequireDoctor(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Registration.OfficeAddress = orNotSpecified(officeAddress)
	user.Registration.Specialty = orNotSpecified(specialty)
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("update doctor profile: %w", err)
	}
	return user, nil
}

// FindDoctors ищет врачей по подстроке в ФИО, адресе или специальности без учёта регистра
func (s *UserService) FindDoctors(ctx context.Context, query string) ([]*model.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	doctors, err := s.userRepo.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}

	var found []*model.User
	for _, d := range doctors {
		reg := d.Registration
		for _, field := range []string{reg.FIO, reg.OfficeAddress, reg.Specialty} {
			if field == "" || field == model.NotSpecified {
				continue
			}
			if strings.Contains(strings.ToLower(field), q) {
				found = append(found, d)
				break
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Registration.FIO < found[j].Registration.FIO
	})
	return found, nil
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.NotSpecified
	}
	return s
}
