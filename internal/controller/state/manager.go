package state

import (
	"sync"
	"time"
)

// Manager состояния диалогов пользователей в памяти процесса
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
	now    func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
		now:    time.Now,
	}
}

func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState меняет шаг диалога. Данные диалога сохраняются.
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData := sm.entryLocked(telegramID)
	userData.State = state
	userData.UpdatedAt = sm.now()
}

func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

func (sm *Manager) SetData(telegramID int64, key string, value any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData := sm.entryLocked(telegramID)
	userData.Data[key] = value
	userData.UpdatedAt = sm.now()
}

// ClearState сбрасывает шаг диалога. Результаты последнего поиска остаются,
// чтобы /book работал после отмены.
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		return
	}

	userData.State = StateNone
	delete(userData.Data, KeyBookingRoom)
	delete(userData.Data, KeyRejectBooking)
}

// Forget удаляет все данные пользователя
func (sm *Manager) Forget(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// GetAllData копия данных диалога
func (sm *Manager) GetAllData(telegramID int64) map[string]any {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		return nil
	}

	dataCopy := make(map[string]any, len(userData.Data))
	for k, v := range userData.Data {
		dataCopy[k] = v
	}
	return dataCopy
}

// Expire удаляет данные пользователей, не проявлявших активности дольше maxAge
func (sm *Manager) Expire(maxAge time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	deadline := sm.now().Add(-maxAge)
	removed := 0
	for telegramID, userData := range sm.states {
		if userData.UpdatedAt.Before(deadline) {
			delete(sm.states, telegramID)
			removed++
		}
	}
	return removed
}

func (sm *Manager) entryLocked(telegramID int64) *UserData {
	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{Data: make(map[string]any)}
		sm.states[telegramID] = userData
	}
	return userData
}
