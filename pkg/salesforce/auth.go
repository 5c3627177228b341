// Package salesforce implements the thin Salesforce REST client used to
// fetch territory records.
//
// Authentication is delegated entirely to the caller: the package consumes
// an auth file (as produced by sf/sfdx org login) containing an access
// token and instance URL, and attaches the token as a bearer credential to
// every query request. Token acquisition and refresh are out of scope.
package salesforce

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Sentinel errors for Salesforce API operations.
var (
	// ErrUnauthorized is returned when the access token is missing,
	// expired, or rejected by the API.
	ErrUnauthorized = errors.New("salesforce: unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("salesforce: not found")

	// ErrNetwork is returned for transport failures and unexpected
	// status codes.
	ErrNetwork = errors.New("salesforce: network error")
)

// Auth holds the credentials needed to query a Salesforce org.
type Auth struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

// LoadAuth decodes auth JSON from r and validates required fields.
// The reader form exists so uploaded files can be parsed without touching
// the filesystem.
func LoadAuth(r io.Reader) (Auth, error) {
	var a Auth
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return Auth{}, fmt.Errorf("decode auth: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Auth{}, err
	}
	return a, nil
}

// LoadAuthFile reads and decodes an auth JSON file from path.
func LoadAuthFile(path string) (Auth, error) {
	f, err := os.Open(path)
	if err != nil {
		return Auth{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadAuth(f)
}

// Validate checks that both required fields are present.
func (a Auth) Validate() error {
	if a.AccessToken == "" {
		return fmt.Errorf("auth file missing access_token")
	}
	if a.InstanceURL == "" {
		return fmt.Errorf("auth file missing instance_url")
	}
	return nil
}
