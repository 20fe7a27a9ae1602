package handlers

import (
	"context"
	"strings"

	"github.com/VaInBlAt/appointment-bot/internal/model"
)

// start приветствие, для зарегистрированных с напоминанием роли
func (h *Handlers) start(ctx context.Context, userID int64, _ []string) (Reply, error) {
	user, err := h.userService.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	if user == nil {
		return say("👋 Добро пожаловать в бот записи к врачу!\n\n" +
			"Для начала зарегистрируйтесь:\n" +
			"/register patient Иванов Иван Иванович\n" +
			"/register doctor Петрова Анна Сергеевна\n\n" +
			"Все команды: /help"), nil
	}

	name := model.ShortName(user.Registration.FIO)
	if user.IsDoctor() {
		return sayf("👋 Здравствуйте, %s!\n\n"+
			"/schedule настроить приём\n"+
			"/appointments записи к вам\n"+
			"/dayoff выходные\n"+
			"/week неделя приёма", name), nil
	}
	return sayf("👋 Здравствуйте, %s!\n\n"+
		"/find найти врача\n"+
		"/slots свободное время\n"+
		"/my мои записи", name), nil
}

func (h *Handlers) help(context.Context, int64, []string) (Reply, error) {
	return say(h.helpText()), nil
}

func (h *Handlers) register(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) < 2 {
		return Reply{}, usage(h.commands["register"].usage)
	}
	role, err := parseRole(args[0])
	if err != nil {
		return Reply{}, err
	}

	user, err := h.userService.Register(ctx, userID, role, strings.Join(args[1:], " "))
	if err != nil {
		return Reply{}, err
	}

	reply := sayf("✅ Вы зарегистрированы как %s: %s", roleName(user.Registration.Role), user.Registration.FIO)
	if user.IsDoctor() {
		reply.Text += "\n\nУкажите кабинет и специальность: /doctor <адрес>; <специальность>\nЗатем настройте приём: /schedule"
	} else if !user.ProfileComplete() {
		reply.Text += "\n\nДля записи к врачу укажите дату рождения и телефон: /contacts 01.02.1990 +79991234567"
	}
	return reply, nil
}

func roleName(r model.Role) string {
	if r == model.RoleDoctor {
		return "врач"
	}
	return "пациент"
}

func (h *Handlers) contacts(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) < 2 {
		return Reply{}, usage(h.commands["contacts"].usage)
	}

	user, err := h.userService.UpdateContacts(ctx, userID, args[0], strings.Join(args[1:], ""))
	if err != nil {
		return Reply{}, err
	}
	return sayf("✅ Контакты сохранены\n📅 %s\n📞 %s", user.Registration.BirthDate, user.Registration.Phone), nil
}

func (h *Handlers) doctorProfile(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, usage(h.commands["doctor"].usage)
	}

	address, specialty := splitProfile(args)
	user, err := h.userService.UpdateDoctorProfile(ctx, userID, address, specialty)
	if err != nil {
		return Reply{}, err
	}
	return sayf("✅ Профиль обновлён\n🏥 %s\n🩺 %s", user.Registration.OfficeAddress, user.Registration.Specialty), nil
}

func (h *Handlers) find(ctx context.Context, _ int64, args []string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, usage(h.commands["find"].usage)
	}

	doctors, err := h.userService.FindDoctors(ctx, strings.Join(args, " "))
	if err != nil {
		return Reply{}, err
	}
	if len(doctors) == 0 {
		return say("🔎 Врачи не найдены"), nil
	}

	var sb strings.Builder
	sb.WriteString("🔎 Найденные врачи:\n\n")
	for _, d := range doctors {
		sb.WriteString(formatDoctor(d))
		sb.WriteString("\n")
	}
	sb.WriteString("\nСвободное время: /slots <id врача> <ГГГГ-ММ-ДД> primary")
	return say(sb.String()), nil
}

// cancel закрывает открытый диалог без сохранения
func (h *Handlers) cancel(_ context.Context, userID int64, _ []string) (Reply, error) {
	if !h.stateManager.ClearState(userID) {
		return say("❌ Нет активных операций для отмены."), nil
	}
	return say("✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд."), nil
}
