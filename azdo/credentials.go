package azdo

import (
	"encoding/base64"
	"errors"
)

// Credentials holds the tokens usable for authenticating API requests. An
// access token takes precedence, the personal access token is the fallback.
type Credentials struct {
	AccessToken         string
	PersonalAccessToken string
}

var errNoUsableCredential = errors.New("no Azure DevOps credential provided: set either an access token or a personal access token")

// Validate ...
func (c Credentials) Validate() error {
	_, err := c.authorizationHeader()
	return err
}

func (c Credentials) authorizationHeader() (string, error) {
	if c.AccessToken != "" {
		return "Bearer " + c.AccessToken, nil
	}
	if c.PersonalAccessToken != "" {
		// PAT auth is basic auth, the user name is not checked by the service.
		return "Basic " + base64.StdEncoding.EncodeToString([]byte("ignored:"+c.PersonalAccessToken)), nil
	}
	return "", errNoUsableCredential
}
