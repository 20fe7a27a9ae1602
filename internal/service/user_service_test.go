package service

import (
	"context"
	"testing"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.userSvc.Register(ctx, 5, "nurse", "Иванова")
	assert.ErrorIs(t, err, model.ErrInvalidRole)
	_, err = f.userSvc.Register(ctx, 5, model.RolePatient, "   ")
	assert.ErrorIs(t, err, model.ErrInvalidFIO)

	u, err := f.userSvc.Register(ctx, 5, model.RolePatient, "  Иванова   Мария  Сергеевна ")
	require.NoError(t, err)
	assert.Equal(t, "Иванова Мария Сергеевна", u.Registration.FIO)
	assert.Equal(t, model.NotSpecified, u.Registration.Specialty)
	assert.False(t, u.ProfileComplete())

	_, err = f.userSvc.UpdateContacts(ctx, 5, "01.02.1990", "8 (912) 345-67-89")
	require.NoError(t, err)

	u, err = f.userSvc.Require(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "89123456789", u.Registration.Phone)
	assert.True(t, u.ProfileComplete())

	_, err = f.userSvc.UpdateContacts(ctx, 5, "01.02.2030", "89123456789")
	assert.ErrorIs(t, err, model.ErrInvalidBirthDate)
	_, err = f.userSvc.UpdateContacts(ctx, 5, "01.02.1990", "12345")
	assert.ErrorIs(t, err, model.ErrInvalidPhone)

	_, err = f.userSvc.RequireDoctor(ctx, 5)
	assert.ErrorIs(t, err, model.ErrNotDoctor)
	_, err = f.userSvc.Require(ctx, 6)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// повторная регистрация сохраняет контакты
	u, err = f.userSvc.Register(ctx, 5, model.RoleDoctor, "Иванова Мария Сергеевна")
	require.NoError(t, err)
	assert.True(t, u.IsDoctor())
	assert.Equal(t, "89123456789", u.Registration.Phone)
}

func TestFindDoctors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.userSvc.Register(ctx, 1, model.RoleDoctor, "Сидорова Анна Ивановна")
	require.NoError(t, err)
	_, err = f.userSvc.UpdateDoctorProfile(ctx, 1, "ул. Ленина, 5", "Терапевт")
	require.NoError(t, err)

	_, err = f.userSvc.Register(ctx, 2, model.RoleDoctor, "Алексеев Борис")
	require.NoError(t, err)
	_, err = f.userSvc.UpdateDoctorProfile(ctx, 2, "", "Хирург")
	require.NoError(t, err)

	_, err = f.userSvc.Register(ctx, 3, model.RolePatient, "Терапевтов Иван")
	require.NoError(t, err)

	found, err := f.userSvc.FindDoctors(ctx, "ТЕРАПЕВТ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].ID)

	found, err = f.userSvc.FindDoctors(ctx, "ленина")
	require.NoError(t, err)
	require.Len(t, found, 1)

	// "не указано" не участвует в поиске
	found, err = f.userSvc.FindDoctors(ctx, "указано")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.userSvc.FindDoctors(ctx, "а")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Алексеев Борис", found[0].Registration.FIO)

	_, err = f.userSvc.UpdateDoctorProfile(ctx, 3, "адрес", "спец")
	assert.ErrorIs(t, err, model.ErrNotDoctor)
}
