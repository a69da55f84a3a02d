package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// profilesFile is the on-disk shape of a --profiles override file.
type profilesFile struct {
	Profiles []profileSpec `yaml:"profiles"`
}

// profileSpec mirrors Profile with delays expressed in seconds, which
// reads more naturally in YAML than nanosecond integers.
type profileSpec struct {
	Name      string  `yaml:"name"`
	HTTPRatio float64 `yaml:"http_ratio"`
	DNSRatio  float64 `yaml:"dns_ratio"`
	TCPRatio  float64 `yaml:"tcp_ratio"`
	UDPRatio  float64 `yaml:"udp_ratio"`
	DelayMin  float64 `yaml:"delay_min_seconds"`
	DelayMax  float64 `yaml:"delay_max_seconds"`
}

// LoadProfilesFile reads pattern overrides from a YAML file and merges
// them over the built-in table. Entries may replace built-in names or
// add new ones.
func LoadProfilesFile(filePath string) (map[string]Profile, error) {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file '%s': %w", filePath, err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}
	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles found in '%s'", filePath)
	}

	table := BuiltinProfiles()
	for i, spec := range file.Profiles {
		if spec.Name == "" {
			return nil, fmt.Errorf("profile %d is missing a name", i)
		}
		p := Profile{
			Name:      spec.Name,
			HTTPRatio: spec.HTTPRatio,
			DNSRatio:  spec.DNSRatio,
			TCPRatio:  spec.TCPRatio,
			UDPRatio:  spec.UDPRatio,
			DelayMin:  secondsToDuration(spec.DelayMin),
			DelayMax:  secondsToDuration(spec.DelayMax),
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile '%s': %w", spec.Name, err)
		}
		table[spec.Name] = p
	}
	return table, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
