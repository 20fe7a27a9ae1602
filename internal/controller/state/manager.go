package state

import (
	"sync"
	"time"

	"github.com/VaInBlAt/appointment-bot/internal/service"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.Mutex
	states map[int64]*UserData // telegramID -> UserData
	now    func() time.Time
}

// NewManager создаёт новый менеджер состояний
func NewManager(now func() time.Time) *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		now:    now,
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// StartDayOffs запоминает сессию редактирования выходных, заменяя прежнюю
func (sm *Manager) StartDayOffs(telegramID int64, session *service.DayOffSession) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[telegramID] = &UserData{
		State:     StateEditingDayOffs,
		DayOffs:   session,
		TouchedAt: sm.now(),
	}
}

// DayOffs возвращает открытую сессию и продлевает её жизнь
func (sm *Manager) DayOffs(telegramID int64) (*service.DayOffSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists || userData.State != StateEditingDayOffs || userData.DayOffs == nil {
		return nil, false
	}
	userData.TouchedAt = sm.now()
	return userData.DayOffs, true
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	_, exists := sm.states[telegramID]
	delete(sm.states, telegramID)
	return exists
}

// Sweep удаляет диалоги, к которым не обращались дольше ttl
func (sm *Manager) Sweep(now time.Time, ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for id, userData := range sm.states {
		if now.Sub(userData.TouchedAt) > ttl {
			delete(sm.states, id)
			removed++
		}
	}
	return removed
}

func (sm *Manager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.states)
}
