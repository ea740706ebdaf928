package credential

import (
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "studymate"

// GeminiAPIKey - имя записи с ключом генеративной модели
const GeminiAPIKey = "gemini_api_key"

var ErrNotFound = errors.New("credential not found")

// Store - секреты в системном хранилище ключей
type Store struct {
	ring keyring.Keyring
}

// Open открывает системное хранилище, с файловым бэкендом как запасным
func Open() (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/studymate/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("studymate-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("открытие хранилища ключей: %w", err)
	}
	return &Store{ring: ring}, nil
}

func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("%q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("чтение секрета %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (s *Store) Set(key, value string) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       "studyMate " + key,
		Description: "studyMate credential",
	})
	if err != nil {
		return fmt.Errorf("запись секрета %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("удаление секрета %q: %w", key, err)
	}
	return nil
}

// Lazy откладывает открытие хранилища до первого запроса секрета: без
// use_keyring системный keyring не трогается вовсе
type Lazy struct {
	open  func() (*Store, error)
	once  sync.Once
	store *Store
	err   error
}

func NewLazy(open func() (*Store, error)) *Lazy {
	if open == nil {
		open = Open
	}
	return &Lazy{open: open}
}

func (l *Lazy) Get(key string) (string, error) {
	l.once.Do(func() {
		l.store, l.err = l.open()
	})
	if l.err != nil {
		return "", l.err
	}
	return l.store.Get(key)
}
