// Package storage хранит именованные JSON-документы в каталоге данных.
// Каждое чтение загружает документ целиком, каждая запись переписывает его целиком.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrCorruptDocument документ на диске не удалось разобрать или он нарушает
// собственные инварианты. Файл при этом не трогаем.
var ErrCorruptDocument = errors.New("corrupt document")

// Validator реализуют документы, умеющие проверить свою целостность после загрузки
type Validator interface {
	Validate() error
}

// Store файловое хранилище JSON-документов
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewStore создаёт хранилище в каталоге dir
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.RWMutex),
	}, nil
}

// Path возвращает путь к файлу документа
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) lock(name string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[name]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[name] = l
	}
	return l
}

// View загружает документ в doc. Отсутствующий файл оставляет doc без изменений,
// поэтому вызывающий передаёт уже инициализированную пустую структуру.
func (s *Store) View(name string, doc any) error {
	l := s.lock(name)
	l.RLock()
	defer l.RUnlock()

	return s.load(name, doc)
}

// Update загружает документ, применяет fn и сохраняет результат одной записью.
// Если fn возвращает ошибку, файл не переписывается.
func (s *Store) Update(name string, doc any, fn func() error) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if err := s.load(name, doc); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return s.save(name, doc)
}

func (s *Store) load(name string, doc any) error {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
	}
	if v, ok := doc.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, name, err)
		}
	}
	return nil
}

// save пишет во временный файл рядом и атомарно подменяет документ
func (s *Store) save(name string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
