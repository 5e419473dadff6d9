package user

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const ExpiryDateLayout = "2006-01-02"

// Env restricts who may call the tool over the HTTP transport. A zero
// Expiration means the grant does not expire.
type Env struct {
	Expiration time.Time `json:"expiration"`
	Users      []string  `json:"users"`
}

func NewUserEnv() *Env {
	return &Env{}
}

func (u *Env) Populate() error {
	if path := os.Getenv("USERS_FILE_PATH"); path != "" {
		file, err := os.Open(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("unable to read users file: %w", err)
		}
		defer func() { _ = file.Close() }()

		scanner := bufio.NewScanner(file)
		scanner.Split(bufio.ScanLines)
		for scanner.Scan() {
			if s := strings.Trim(scanner.Text(), " "); s != "" {
				u.Users = append(u.Users, s)
			}
		}
	}

	if path := os.Getenv("CONFIG_FILE_PATH"); path != "" {
		content, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("unable to read users file: %w", err)
		}

		if err := json.Unmarshal(content, &u); err != nil {
			return fmt.Errorf("unable to unmarshal users file: %w", err)
		}
	}

	if expiration := os.Getenv("EXPIRATION_DATE"); expiration != "" {
		t, err := time.Parse(ExpiryDateLayout, expiration)
		if err != nil {
			return fmt.Errorf("unable to parse expiration date: %w", err)
		}
		u.Expiration = t
	}

	if users := os.Getenv("AUTHORIZED_USERS"); users != "" {
		u.Users = splitUsers(users)
	}

	return nil
}

func (u *Env) HasExpiration() bool {
	return !u.Expiration.IsZero()
}

func (u *Env) IsExpired() bool {
	if !u.HasExpiration() {
		return false
	}
	return u.Expiration.Before(time.Now())
}

func (u *Env) IsAuthorized(user string) bool {
	for _, s := range u.Users {
		if s == user {
			return true
		}
	}
	return false
}

func (u *Env) UnmarshalJSON(b []byte) error {
	var raw map[string]any

	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unable to unmarshal user file: %w", err)
	}

	if value, found := raw["expiration"]; found {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("unable to parse expiration date: %v", value)
		}

		expiration, err := time.Parse(ExpiryDateLayout, s)
		if err != nil {
			return fmt.Errorf("unable to parse expiration date: %w", err)
		}
		u.Expiration = expiration
	}

	if _, found := raw["users"]; !found {
		return errors.New("unable to find users list")
	}
	users, ok := raw["users"].([]any)
	if !ok {
		return fmt.Errorf("unable to parse users list: %v", raw["users"])
	}

	for _, v := range users {
		user, ok := v.(string)
		if !ok {
			return fmt.Errorf("unable to parse user: %v", v)
		}
		if s := strings.Trim(user, " "); s != "" {
			u.Users = append(u.Users, s)
		}
	}

	return nil
}

func splitUsers(s string) []string {
	ss := strings.Split(s, ",")
	users := make([]string, 0, len(ss))

	for _, entry := range ss {
		if s := strings.Trim(entry, " "); s != "" {
			users = append(users, s)
		}
	}

	return users
}
