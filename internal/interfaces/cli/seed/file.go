package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML document accepted by the seed command.
type File struct {
	Servers []ServerEntry `yaml:"servers"`
	Plans   []PlanEntry   `yaml:"plans"`
	Users   []UserEntry   `yaml:"users"`
}

type ServerEntry struct {
	Domain   string `yaml:"domain"`
	Scheme   string `yaml:"scheme"`
	Host     string `yaml:"host"`
	Provider string `yaml:"provider"`
	Secret   string `yaml:"secret"`
	Sequence int    `yaml:"sequence"`
}

type PlanEntry struct {
	Name                  string `yaml:"name"`
	Summary               string `yaml:"summary"`
	WebsiteDescription    string `yaml:"website_description"`
	DBNameTemplate        string `yaml:"dbname_template"`
	Template              string `yaml:"template"`
	MaxUsers              int    `yaml:"max_users"`
	TotalStorageLimit     int64  `yaml:"total_storage_limit"`
	BlockOnExpiration     bool   `yaml:"block_on_expiration"`
	BlockOnStorageExceed  bool   `yaml:"block_on_storage_exceed"`
	MaxDBsPerPartner      int    `yaml:"max_dbs_per_partner"`
	MaxTrialDBsPerPartner int    `yaml:"max_trial_dbs_per_partner"`
	ExpirationHours       int    `yaml:"expiration_hours"`
	GracePeriodDays       int    `yaml:"grace_period_days"`
	Lang                  string `yaml:"lang"`
	TZ                    string `yaml:"tz"`
	Demo                  bool   `yaml:"demo"`
	Sequence              int    `yaml:"sequence"`
	// Server is the domain of a server in the same file or already registered.
	Server string `yaml:"server"`
}

type UserEntry struct {
	ID        uint   `yaml:"id"`
	PartnerID uint   `yaml:"partner_id"`
	Login     string `yaml:"login"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// ReadFile opens and decodes the seed document at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}
