package environment

import (
	"fmt"
	"strings"
)

// Profile selects the deployment mode and, through it, the logging backend.
type Profile int

const (
	Debug Profile = iota + 1
	Production
)

// ParseProfile accepts DEBUG or PRODUCTION, ignoring case and surrounding space.
func ParseProfile(raw string) (Profile, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DEBUG":
		return Debug, nil
	case "PRODUCTION":
		return Production, nil
	default:
		return 0, fmt.Errorf("unknown profile %q (want DEBUG or PRODUCTION)", raw)
	}
}

func (p Profile) String() string {
	switch p {
	case Debug:
		return "DEBUG"
	case Production:
		return "PRODUCTION"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// UnmarshalText lets env decoding and YAML/JSON parse profiles directly.
func (p *Profile) UnmarshalText(text []byte) error {
	parsed, err := ParseProfile(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (p Profile) MarshalText() ([]byte, error) {
	if p != Debug && p != Production {
		return nil, fmt.Errorf("invalid profile %d", int(p))
	}
	return []byte(p.String()), nil
}
