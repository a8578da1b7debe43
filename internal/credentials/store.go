package credentials

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"RainSentinel/internal/model"
)

// Service is the keyring service name every credential field is stored under.
const Service = "noaa-rainfall-tracker"

// Account names, one keyring entry each.
const (
	AccountHost     = "smtp_host"
	AccountPort     = "smtp_port"
	AccountUser     = "smtp_user"
	AccountPassword = "smtp_pass"
	AccountFrom     = "smtp_from"
)

const (
	DefaultHost = "smtp.gmail.com"
	DefaultPort = 587
)

var (
	ErrNotConfigured      = errors.New("no email credentials found")
	ErrReadOnly           = errors.New("credential store is read-only")
	ErrKeyringUnavailable = errors.New("platform keyring is not available")
)

// Store persists and looks up single credential fields by account name.
type Store interface {
	Store(account, secret string) error
	Retrieve(account string) (string, bool)
}

// KeyringStore keeps credentials in the platform secret store (macOS Keychain,
// Secret Service, Windows Credential Manager).
type KeyringStore struct {
	Service string
}

// NewKeyringStore returns a store under the default service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{Service: Service}
}

// Available reports whether the backend answers at all. A missing entry still
// counts as available.
func (k *KeyringStore) Available() bool {
	_, err := keyring.Get(k.Service, AccountPassword)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Store replaces any existing entry for account.
func (k *KeyringStore) Store(account, secret string) error {
	if err := keyring.Delete(k.Service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("remove old %s: %w", account, err)
	}
	if err := keyring.Set(k.Service, account, secret); err != nil {
		return fmt.Errorf("store %s in keyring: %w", account, err)
	}
	return nil
}

func (k *KeyringStore) Retrieve(account string) (string, bool) {
	v, err := keyring.Get(k.Service, account)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

var envNames = map[string]string{
	AccountHost:     "SMTP_HOST",
	AccountPort:     "SMTP_PORT",
	AccountUser:     "SMTP_USER",
	AccountPassword: "SMTP_PASS",
	AccountFrom:     "SMTP_FROM",
}

// EnvStore reads credentials from SMTP_* environment variables. It is read-only,
// and the password only counts as present when SMTP_USER is set too.
type EnvStore struct {
	Lookup func(string) (string, bool)
}

// NewEnvStore loads a .env file from the working directory, if any, and reads the
// process environment.
func NewEnvStore() *EnvStore {
	_ = godotenv.Load()
	return &EnvStore{Lookup: os.LookupEnv}
}

func (e *EnvStore) Store(string, string) error { return ErrReadOnly }

func (e *EnvStore) Retrieve(account string) (string, bool) {
	if account == AccountPassword {
		if u, ok := e.get(AccountUser); !ok || u == "" {
			return "", false
		}
	}
	return e.get(account)
}

func (e *EnvStore) get(account string) (string, bool) {
	name, ok := envNames[account]
	if !ok {
		return "", false
	}
	v, ok := e.Lookup(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Load assembles a credential set from one store. The password is the existence
// signal: without it the set is not configured, whatever else is present.
func Load(s Store) (model.Credentials, error) {
	pass, ok := s.Retrieve(AccountPassword)
	if !ok {
		return model.Credentials{}, ErrNotConfigured
	}

	creds := model.Credentials{Host: DefaultHost, Port: DefaultPort, Password: pass}
	if v, ok := s.Retrieve(AccountHost); ok {
		creds.Host = v
	}
	if v, ok := s.Retrieve(AccountPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return model.Credentials{}, fmt.Errorf("invalid SMTP port %q", v)
		}
		creds.Port = port
	}
	if v, ok := s.Retrieve(AccountUser); ok {
		creds.Username = v
	}
	creds.From = creds.Username
	if v, ok := s.Retrieve(AccountFrom); ok {
		creds.From = v
	}
	return creds, nil
}

// Resolve returns the first configured credential set among stores, in order.
func Resolve(stores ...Store) (model.Credentials, error) {
	for _, s := range stores {
		creds, err := Load(s)
		if errors.Is(err, ErrNotConfigured) {
			continue
		}
		return creds, err
	}
	return model.Credentials{}, ErrNotConfigured
}

// DefaultStores lists the keyring first when the platform provides one, then the
// environment.
func DefaultStores() []Store {
	var stores []Store
	if k := NewKeyringStore(); k.Available() {
		stores = append(stores, k)
	}
	return append(stores, NewEnvStore())
}
