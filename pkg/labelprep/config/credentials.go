package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cognicore/labelprep/pkg/labelprep/internalerr"
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is an
// error only when required is true.
func LoadEnvFile(path string, required bool) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Credentials are the database login details read from the environment.
type Credentials struct {
	User     string
	Password string
	Host     string
	Port     string
}

// ReadCredentials looks up every configured variable and reports all that
// are missing in one error, before any connection is attempted. A blank
// variable name is a configuration error.
func (e CredentialEnv) ReadCredentials(lookup LookupFunc) (Credentials, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var empty []string
	for _, f := range []struct{ field, key string }{
		{"user", e.User}, {"password", e.Password}, {"host", e.Host}, {"port", e.Port},
	} {
		if strings.TrimSpace(f.key) == "" {
			empty = append(empty, "source.env."+f.field)
		}
	}
	if len(empty) > 0 {
		return Credentials{}, fmt.Errorf("%w: %s is empty", internalerr.ErrInvalidConfig, strings.Join(empty, ", "))
	}

	var missing []string
	get := func(key string) string {
		v, ok := lookup(key)
		if !ok {
			missing = append(missing, key)
		}
		return v
	}

	creds := Credentials{
		User:     get(e.User),
		Password: get(e.Password),
		Host:     get(e.Host),
		Port:     get(e.Port),
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("%w: environment variable(s) not set: %s",
			internalerr.ErrMissingCredential, strings.Join(missing, ", "))
	}
	return creds, nil
}

// PostgresDSN returns the connection string for the postgres driver. An
// explicit source.dsn wins; otherwise credentials come from the environment.
func (s Source) PostgresDSN(lookup LookupFunc) (string, error) {
	if strings.TrimSpace(s.DSN) != "" {
		return s.DSN, nil
	}

	creds, err := s.Env.ReadCredentials(lookup)
	if err != nil {
		return "", err
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(creds.User, creds.Password),
		Host:   net.JoinHostPort(creds.Host, creds.Port),
		Path:   "/" + s.Database,
	}
	if s.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {s.SSLMode}}.Encode()
	}
	return u.String(), nil
}
