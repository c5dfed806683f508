package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Store держит конфиг и путь к файлу. Если файла нет - создаём его с дефолтами.
type Store struct {
	mu   sync.Mutex
	path string
	data Config
}

func NewStore(path string) *Store {
	return &Store{path: path, data: Default()}
}

// Load читает файл (или создаёт его), затем накладывает переменные окружения.
func Load(path string) (Config, error) {
	s := NewStore(path)
	if err := s.Load(); err != nil {
		return Config{}, err
	}
	return s.Get(), nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		if err := s.save(); err != nil {
			return err
		}
	case err != nil:
		return eris.Wrapf(err, "read config %s", s.path)
	default:
		cfg := Default()
		if err := json.Unmarshal(b, &cfg); err != nil {
			return eris.Wrapf(err, "parse config %s", s.path)
		}
		s.data = cfg
	}

	if err := ApplyEnv(&s.data); err != nil {
		return err
	}
	return nil
}

func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return eris.Wrap(err, "create config dir")
	}
	b, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode config")
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return eris.Wrapf(err, "write config %s", s.path)
	}
	return nil
}

func (s *Store) Get() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// ApplyEnv перекрывает поля значениями из окружения (только заданные переменные).
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return eris.Wrap(err, "parse env")
	}
	return nil
}
