package service

import "sync"

// DoctorLocks мьютексы записи в реестр, по одному на врача.
// Неиспользуемые мьютексы удаляются из карты.
type DoctorLocks struct {
	mu    sync.Mutex
	locks map[int64]*doctorLock
}

type doctorLock struct {
	mu   sync.Mutex
	refs int
}

func NewDoctorLocks() *DoctorLocks {
	return &DoctorLocks{locks: make(map[int64]*doctorLock)}
}

// Lock захватывает мьютекс врача и возвращает функцию освобождения
func (l *DoctorLocks) Lock(doctorID int64) func() {
	l.mu.Lock()
	entry, ok := l.locks[doctorID]
	if !ok {
		entry = &doctorLock{}
		l.locks[doctorID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, doctorID)
		}
		l.mu.Unlock()
	}
}

func (l *DoctorLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
