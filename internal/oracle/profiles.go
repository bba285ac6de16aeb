package oracle

import (
	"encoding/json"
	"fmt"
	"os"
)

// Profile names the assistant depends on. Loading fails fast when one is
// missing so a typo in the config file surfaces at startup, not mid-request.
const (
	ProfileDefault          = "default"
	ProfileRecord           = "record"
	ProfileSupport          = "support"
	ProfileExtractPeriod    = "extract_period"
	ProfileConvertDateRange = "convert_date_range"
)

var requiredProfiles = []string{
	ProfileDefault,
	ProfileRecord,
	ProfileSupport,
	ProfileExtractPeriod,
	ProfileConvertDateRange,
}

// Profile is a named bundle of generation parameters. Instructions is a
// fixed prefix prepended to every prompt sent under the profile.
type Profile struct {
	Model            string  `json:"model"`
	MaxTokens        int     `json:"max_tokens"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
	Instructions     string  `json:"instructions"`
}

// Profiles maps a profile name to its generation parameters.
type Profiles map[string]Profile

// LoadProfiles reads and validates the profile table from a JSON file.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile config: %w", err)
	}

	var profiles Profiles
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profile config: %w", err)
	}

	for _, name := range requiredProfiles {
		p, ok := profiles[name]
		if !ok {
			return nil, fmt.Errorf("profile config missing required profile %q", name)
		}
		if p.Model == "" {
			return nil, fmt.Errorf("profile %q has no model", name)
		}
	}

	return profiles, nil
}

// Get returns a profile by name. The name must be one of the required
// profiles validated at load time.
func (p Profiles) Get(name string) Profile {
	return p[name]
}
