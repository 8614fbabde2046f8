// Package userdir is the registry of known users. It is safe for concurrent use;
// concurrent saves of the same username resolve to the last writer.
package userdir

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"fjacquet/finance-ledger/internal/fileutils"
	"fjacquet/finance-ledger/internal/ledgererror"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/models"
	"fjacquet/finance-ledger/internal/validation"

	"gopkg.in/yaml.v3"
)

// Directory maps usernames to users, optionally mirrored to a YAML file.
type Directory struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	file   string
	logger logging.Logger
}

type usersFile struct {
	Users []userEntry `yaml:"users"`
}

type userEntry struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// New returns an empty in-memory directory.
func New(logger logging.Logger) *Directory {
	return &Directory{
		users:  make(map[string]*models.User),
		logger: logging.OrDefault(logger),
	}
}

// NewPersistent returns a directory backed by the YAML file at path.
// Users already in the file are loaded; a missing file starts empty.
func NewPersistent(path string, logger logging.Logger) (*Directory, error) {
	d := New(logger)
	d.file = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return d, nil
		}
		return nil, fmt.Errorf("error reading users file: %w", err)
	}

	if info, statErr := os.Stat(path); statErr == nil {
		if err := validation.FilePermissions(info.Mode().Perm()); err != nil {
			d.logger.WithError(err).Warn("Users file is readable by others",
				logging.F(logging.FieldFile, path))
		}
	}

	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing users file: %w", err)
	}
	for _, e := range f.Users {
		u := models.NewUser(e.Username, e.PasswordHash)
		if u.Username() == "" {
			continue
		}
		d.users[u.Username()] = u
	}
	d.logger.Debug("Loaded users",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(d.users)))
	return d, nil
}

// Save registers or replaces user.
func (d *Directory) Save(user *models.User) error {
	if user == nil || user.Username() == "" {
		return ledgererror.Invalid("user", "username must not be empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.Username()] = user
	return d.persistLocked()
}

// FindByUsername looks up a user. The username is trimmed first.
func (d *Directory) FindByUsername(username string) (*models.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[strings.TrimSpace(username)]
	return u, ok
}

// Exists reports whether username is registered.
func (d *Directory) Exists(username string) bool {
	_, ok := d.FindByUsername(username)
	return ok
}

// Delete removes username. Removing an unknown user is a no-op.
func (d *Directory) Delete(username string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.users, strings.TrimSpace(username))
	return d.persistLocked()
}

// List returns all usernames, sorted.
func (d *Directory) List() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.users))
	for name := range d.users {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Directory) persistLocked() error {
	if d.file == "" {
		return nil
	}
	names := make([]string, 0, len(d.users))
	for name := range d.users {
		names = append(names, name)
	}
	sort.Strings(names)

	f := usersFile{Users: make([]userEntry, 0, len(names))}
	for _, name := range names {
		f.Users = append(f.Users, userEntry{Username: name, PasswordHash: d.users[name].PasswordHash()})
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("error marshaling users: %w", err)
	}
	if err := fileutils.WriteFileAtomic(d.file, data, 0600); err != nil {
		return fmt.Errorf("error writing users file: %w", err)
	}
	return nil
}
