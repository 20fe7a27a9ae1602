package model

import "time"

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

// NotSpecified значение незаполненного необязательного поля
const NotSpecified = "не указано"

// RegistrationData анкета пользователя
type RegistrationData struct {
	Role             Role   `json:"role"`
	FIO              string `json:"fio"`
	BirthDate        string `json:"birth_date"` // ДД.ММ.ГГГГ
	Phone            string `json:"phone"`
	OfficeAddress    string `json:"office_address"`
	Specialty        string `json:"specialty"`
	WebsiteLink      string `json:"website_link"`
	PhotoFileID      string `json:"photo_file_id"`
	RegistrationDate string `json:"registration_date"`
}

type User struct {
	ID           int64            `json:"-"`
	Registration RegistrationData `json:"registration_data"`
	Weekends     DayOffSet        `json:"weekends"` // только у врачей
}

func (u *User) IsDoctor() bool {
	return u.Registration.Role == RoleDoctor
}

// ProfileComplete сообщает, заполнены ли поля, нужные для записи к врачу
func (u *User) ProfileComplete() bool {
	return u.Registration.FIO != "" && u.Registration.BirthDate != "" && u.Registration.Phone != ""
}

// DayOffs возвращает выходные врача (пустой набор, если их нет)
func (u *User) DayOffs() DayOffSet {
	if u.Weekends == nil {
		return NewDayOffSet()
	}
	return u.Weekends
}

// NewRegistration заполняет анкету с датой регистрации
func NewRegistration(role Role, fio string, now time.Time) RegistrationData {
	return RegistrationData{
		Role:             role,
		FIO:              fio,
		OfficeAddress:    NotSpecified,
		Specialty:        NotSpecified,
		WebsiteLink:      NotSpecified,
		RegistrationDate: now.Format(time.RFC3339),
	}
}
