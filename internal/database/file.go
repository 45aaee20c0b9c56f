package database

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"groupgate/entity"
	"groupgate/internal/config"
	"groupgate/lib/sl"
)

// FileStore keeps the activation set in a single JSON array of integer
// identifiers and the outstanding codes in a sibling JSON file. A missing or
// malformed file is treated as an empty set so a fresh or damaged deployment
// starts serving instead of failing.
type FileStore struct {
	usersPath string
	codesPath string
	log       *slog.Logger
}

func NewFileStore(conf *config.Config, log *slog.Logger) *FileStore {
	return &FileStore{
		usersPath: conf.Storage.UsersFile,
		codesPath: conf.Storage.CodesFile,
		log:       log.With(sl.Module("database.file")),
	}
}

func (s *FileStore) LoadUsers() ([]int64, error) {
	var users []int64
	if !s.readJson(s.usersPath, &users) {
		return []int64{}, nil
	}
	return users, nil
}

func (s *FileStore) SaveUsers(users []int64) error {
	if users == nil {
		users = []int64{}
	}
	return s.writeJson(s.usersPath, users)
}

func (s *FileStore) LoadCodes() ([]entity.ActivationCode, error) {
	var codes []entity.ActivationCode
	if !s.readJson(s.codesPath, &codes) {
		return []entity.ActivationCode{}, nil
	}
	return codes, nil
}

func (s *FileStore) SaveCodes(codes []entity.ActivationCode) error {
	if codes == nil {
		codes = []entity.ActivationCode{}
	}
	return s.writeJson(s.codesPath, codes)
}

// readJson reports whether the target was populated from the file.
// Absent or unreadable contents are logged and reported as not populated.
func (s *FileStore) readJson(path string, target interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("reading store file", slog.String("path", path), sl.Err(err))
		}
		return false
	}
	if err = json.Unmarshal(data, target); err != nil {
		s.log.Warn("malformed store file, starting empty", slog.String("path", path), sl.Err(err))
		return false
	}
	return true
}

// writeJson replaces the file contents via a temp file and rename, so a
// partial write can never corrupt the next load.
func (s *FileStore) writeJson(path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
