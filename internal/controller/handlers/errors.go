package handlers

import (
	"errors"

	"github.com/VaInBlAt/appointment-bot/internal/model"
)

var errorMessages = []struct {
	err  error
	text string
}{
	{model.ErrNoScheduleConfigured, "❌ Врач ещё не настроил расписание"},
	{model.ErrSlotAlreadyBooked, "❌ Это время уже занято, выберите другой слот"},
	{model.ErrSlotUnavailable, "❌ Такого слота нет в расписании на выбранный день"},
	{model.ErrInvalidTimeFormat, "❌ Неверный формат времени, нужно ЧЧ:ММ"},
	{model.ErrInvalidPeriodOrdering, "❌ Время окончания должно быть позже начала"},
	{model.ErrInvalidSlotDuration, "❌ Длительность приёма должна быть от 5 до 180 минут"},
	{model.ErrPastDateSelected, "❌ Нельзя выбрать прошедшую дату"},
	{model.ErrInvalidDate, "❌ Неверная дата, нужно ГГГГ-ММ-ДД"},
	{model.ErrInvalidAppointment, "❌ Тип приёма: primary (первичный) или repeat (повторный)"},
	{model.ErrNotFound, "❌ Не найдено. Возможно, нужно зарегистрироваться: /register"},
	{model.ErrForbidden, "❌ Нет доступа к этой записи"},
	{model.ErrInvalidRole, "❌ Роль: doctor (врач) или patient (пациент)"},
	{model.ErrInvalidFIO, "❌ Укажите ФИО"},
	{model.ErrInvalidPhone, "❌ Телефон в формате +7XXXXXXXXXX или 8XXXXXXXXXX"},
	{model.ErrInvalidBirthDate, "❌ Дата рождения в формате ДД.ММ.ГГГГ"},
	{model.ErrProfileIncomplete, "❌ Заполните дату рождения и телефон: /contacts"},
	{model.ErrNotDoctor, "❌ Эта функция доступна только врачам"},
	{errNoSession, "❌ Нет открытого редактирования выходных. Начните с /dayoff"},
}

var errNoSession = errors.New("no day-off session")

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return "❌ Произошла ошибка. Попробуйте позже."
}

// isDomainError ошибки, которые пользователь может исправить сам
func isDomainError(err error) bool {
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}
