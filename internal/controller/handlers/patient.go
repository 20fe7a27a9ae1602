package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/VaInBlAt/appointment-bot/internal/model"
	"github.com/VaInBlAt/appointment-bot/internal/service"
)

func (h *Handlers) slots(ctx context.Context, _ int64, args []string) (Reply, error) {
	if len(args) < 2 || len(args) > 3 {
		return Reply{}, usage(h.commands["slots"].usage)
	}
	doctorID, err := parseID(args[0])
	if err != nil {
		return Reply{}, err
	}
	appointmentType := model.AppointmentTypePrimary
	if len(args) == 3 {
		if appointmentType, err = parseAppointmentType(args[2]); err != nil {
			return Reply{}, err
		}
	}
	date := args[1]

	free, err := h.availabilityService.AvailableSlots(ctx, doctorID, date, appointmentType)
	if err != nil {
		return Reply{}, err
	}

	if len(free) == 0 {
		reply := sayf("😔 На %s свободных слотов нет (%s приём).", formatDate(date), typeName(appointmentType))
		next, ok, err := h.availabilityService.NextWorkingDate(ctx, doctorID, date)
		if err != nil {
			return Reply{}, err
		}
		if ok {
			reply.Text += fmt.Sprintf("\n\nСледующий рабочий день: /slots %d %s %s", doctorID, next, appointmentType)
		}
		return reply, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🕒 Свободно на %s, %s приём:\n\n", formatDate(date), typeName(appointmentType))
	for _, slot := range free {
		fmt.Fprintf(&sb, "• %s\n", slot)
	}
	fmt.Fprintf(&sb, "\nЗаписаться: /book %d %s <слот> %s", doctorID, date, appointmentType)
	return say(sb.String()), nil
}

func (h *Handlers) book(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) != 4 {
		return Reply{}, usage(h.commands["book"].usage)
	}
	doctorID, err := parseID(args[0])
	if err != nil {
		return Reply{}, err
	}
	appointmentType, err := parseAppointmentType(args[3])
	if err != nil {
		return Reply{}, err
	}

	patient, err := h.userService.Require(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	appointment, err := h.appointmentService.Book(ctx, service.BookRequest{
		DoctorID: doctorID,
		Date:     args[1],
		TimeSlot: args[2],
		Type:     appointmentType,
		Patient:  service.PatientFromUser(patient),
	})
	if err != nil {
		return Reply{}, err
	}

	return sayf("✅ Вы записаны!\n\n%s\n\nОтменить: /cancel_appointment %s",
		formatAppointment(appointment, false), appointment.ID), nil
}

func (h *Handlers) myAppointments(ctx context.Context, userID int64, _ []string) (Reply, error) {
	if _, err := h.userService.Require(ctx, userID); err != nil {
		return Reply{}, err
	}

	list, err := h.appointmentService.ListForPatient(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if len(list) == 0 {
		return say("📭 У вас нет записей"), nil
	}

	var sb strings.Builder
	sb.WriteString("📅 Ваши записи:\n")
	for _, a := range list {
		sb.WriteString("\n")
		sb.WriteString(formatAppointment(a, false))
		sb.WriteString("\n")
	}
	return say(sb.String()), nil
}

func (h *Handlers) cancelAppointment(ctx context.Context, userID int64, args []string) (Reply, error) {
	if len(args) != 1 {
		return Reply{}, usage(h.commands["cancel_appointment"].usage)
	}
	if err := h.appointmentService.Cancel(ctx, args[0], userID); err != nil {
		return Reply{}, err
	}
	return say("✅ Запись отменена"), nil
}
