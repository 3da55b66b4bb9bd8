// Package accounts holds the fixed credential catalog of the storefront
// under test.
package accounts

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Behavior is what the storefront is expected to do when an account logs in
type Behavior string

// Login behaviors
const (
	BehaviorSuccessfulLogin Behavior = "successful_login"
	BehaviorLockedOut       Behavior = "locked_out"
)

// Well-known account names
const (
	StandardUser          = "standard_user"
	LockedOutUser         = "locked_out_user"
	ProblemUser           = "problem_user"
	PerformanceGlitchUser = "performance_glitch_user"
	ErrorUser             = "error_user"
	VisualUser            = "visual_user"
)

// Catalog errors
var (
	ErrUnknownAccount   = errors.New("unknown account")
	ErrEmptyCatalog     = errors.New("credential catalog has no accounts")
	ErrDuplicateAccount = errors.New("duplicate account")
	ErrInvalidBehavior  = errors.New("invalid expected behavior")
)

//go:embed accounts.yaml
var defaultCatalog []byte

// Account is one immutable credential record
type Account struct {
	Username         string
	Password         string
	ExpectedBehavior Behavior
	Description      string
}

// CanLogin reports whether the account is expected to reach the inventory
func (a Account) CanLogin() bool {
	return a.ExpectedBehavior == BehaviorSuccessfulLogin
}

// String returns the username, never the password
func (a Account) String() string {
	return a.Username
}

// Catalog is the ordered, read-only set of accounts
type Catalog struct {
	accounts []Account
	index    map[string]int
}

type catalogFile struct {
	Password string `yaml:"password"`
	Accounts []struct {
		Username         string   `yaml:"username"`
		Password         string   `yaml:"password"`
		ExpectedBehavior Behavior `yaml:"expected_behavior"`
		Description      string   `yaml:"description"`
	} `yaml:"accounts"`
}

// Default parses the embedded catalog. It is meant to be called once per
// process and the result passed into test setup.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a catalog from a YAML document. A per-account password
// overrides the shared one.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential catalog: %w", err)
	}
	if len(file.Accounts) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{index: make(map[string]int, len(file.Accounts))}
	for _, entry := range file.Accounts {
		if entry.Username == "" {
			return nil, fmt.Errorf("%w: empty username", ErrUnknownAccount)
		}
		if _, ok := c.index[entry.Username]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, entry.Username)
		}
		switch entry.ExpectedBehavior {
		case BehaviorSuccessfulLogin, BehaviorLockedOut:
		default:
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidBehavior, entry.ExpectedBehavior, entry.Username)
		}

		password := entry.Password
		if password == "" {
			password = file.Password
		}
		c.index[entry.Username] = len(c.accounts)
		c.accounts = append(c.accounts, Account{
			Username:         entry.Username,
			Password:         password,
			ExpectedBehavior: entry.ExpectedBehavior,
			Description:      entry.Description,
		})
	}
	return c, nil
}

// Lookup returns the account with the given username
func (c *Catalog) Lookup(username string) (Account, error) {
	i, ok := c.index[username]
	if !ok {
		return Account{}, fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}
	return c.accounts[i], nil
}

// MustLookup is Lookup for names known at authoring time
func (c *Catalog) MustLookup(username string) Account {
	a, err := c.Lookup(username)
	if err != nil {
		panic(err)
	}
	return a
}

// All returns a copy of every account in catalog order
func (c *Catalog) All() []Account {
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// WithBehavior returns the accounts expected to behave as b
func (c *Catalog) WithBehavior(b Behavior) []Account {
	var out []Account
	for _, a := range c.accounts {
		if a.ExpectedBehavior == b {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of accounts
func (c *Catalog) Len() int {
	return len(c.accounts)
}
