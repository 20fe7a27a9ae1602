package jsonrepo

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/storage"
)

const usersDocument = "users"

type usersDoc struct {
	Users map[string]*model.User `json:"users"`
}

func newUsersDoc() *usersDoc {
	return &usersDoc{Users: make(map[string]*model.User)}
}

// Validate проверяет ключи и роли, заодно проставляя ID из ключа
func (d *usersDoc) Validate() error {
	for key, u := range d.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("user key %q: %w", key, err)
		}
		if u == nil {
			return fmt.Errorf("user %s: null record", key)
		}
		if !u.Registration.Role.Valid() {
			return fmt.Errorf("user %s: %w %q", key, model.ErrInvalidRole, u.Registration.Role)
		}
		u.ID = id
	}
	return nil
}

type UserRepository struct {
	store *storage.Store
}

func NewUserRepository(store *storage.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) view() (*usersDoc, error) {
	doc := newUsersDoc()
	if err := r.store.View(usersDocument, doc); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return doc, nil
}

// Upsert сохраняет анкету пользователя, не трогая его выходные
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) error {
	doc := newUsersDoc()
	err := r.store.Update(usersDocument, doc, func() error {
		if doc.Users == nil {
			doc.Users = make(map[string]*model.User)
		}
		key := doctorKey(u.ID)
		stored := *u
		if existing, ok := doc.Users[key]; ok && stored.Weekends == nil {
			stored.Weekends = existing.Weekends
		}
		doc.Users[key] = &stored
		return nil
	})
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя или nil, если он не зарегистрирован
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}
	u, ok := doc.Users[doctorKey(id)]
	if !ok {
		return nil, nil
	}
	return u, nil
}

// ListDoctors все зарегистрированные врачи, по возрастанию id
func (r *UserRepository) ListDoctors(ctx context.Context) ([]*model.User, error) {
	doc, err := r.view()
	if err != nil {
		return nil, err
	}

	var doctors []*model.User
	for _, u := range doc.Users {
		if u.IsDoctor() {
			doctors = append(doctors, u)
		}
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

// UpdateWeekends заменяет набор выходных врача
func (r *UserRepository) UpdateWeekends(ctx context.Context, id int64, weekends model.DayOffSet) error {
	doc := newUsersDoc()
	err := r.store.Update(usersDocument, doc, func() error {
		u, ok := doc.Users[doctorKey(id)]
		if !ok {
			return model.ErrNotFound
		}
		u.Weekends = weekends.Clone()
		return nil
	})
	if err != nil {
		return fmt.Errorf("save weekends: %w", err)
	}
	return nil
}
