package credentials

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"go-sentinel/models"
)

// file is the on-disk credentials document.
type file struct {
	Credentials []models.Credential `yaml:"credentials"`
}

// Load reads a credentials file. Malformed entries are skipped with a
// warning; only an unreadable or unparsable file is an error.
func Load(path string) ([]models.Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a credentials document.
func Parse(data []byte) ([]models.Credential, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing credentials file: %w", err)
	}

	var out []models.Credential
	for i, cred := range doc.Credentials {
		if err := validate(cred); err != nil {
			logrus.Warnf("skipping credential entry %d: %v", i, err)
			continue
		}
		out = append(out, cred)
	}
	return out, nil
}

func validate(c models.Credential) error {
	if c.Username == "" {
		return fmt.Errorf("missing username")
	}
	switch c.Type {
	case models.CredentialSSH:
		if c.Password == "" && c.KeyFile == "" {
			return fmt.Errorf("ssh credential needs a password or key file")
		}
	case models.CredentialWebForm:
		if c.UsernameField == "" || c.PasswordField == "" {
			return fmt.Errorf("web-form credential needs usernameField and passwordField")
		}
	case models.CredentialBasic:
		if c.Password == "" {
			return fmt.Errorf("basic credential needs a password")
		}
	case models.CredentialDatabase:
		if c.DBType == "" {
			return fmt.Errorf("database credential needs dbType")
		}
	case "":
		return fmt.Errorf("missing type")
	default:
		return fmt.Errorf("unknown type %q", c.Type)
	}
	return nil
}
