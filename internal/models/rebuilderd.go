package models

import (
	"fmt"

	"github.com/gookit/color"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is the reproducibility status reported by rebuilderd.
// The zero value is StatusUnknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusGood
	StatusBad
)

// Statuses lists every status in the order used by the CLI.
var Statuses = []Status{StatusGood, StatusBad, StatusUnknown}

// String returns the wire representation of the status
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "GOOD"
	case StatusBad:
		return "BAD"
	default:
		return "UNKWN"
	}
}

// ParseStatus parses a rebuilderd status string. Only the exact values GOOD, BAD
// and UNKWN are accepted.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "GOOD":
		return StatusGood, nil
	case "BAD":
		return StatusBad, nil
	case "UNKWN":
		return StatusUnknown, nil
	default:
		return StatusUnknown, fmt.Errorf("invalid status %q (expected GOOD, BAD or UNKWN)", s)
	}
}

// MarshalJSON implements json.Marshaler
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Marker returns the colored one-character marker shown in front of a package line.
func (s Status) Marker() string {
	switch s {
	case StatusGood:
		return color.Green.Render("+")
	case StatusBad:
		return color.Red.Render("-")
	default:
		return color.Yellow.Render("?")
	}
}

// Fancy returns the colored status label padded to a fixed width.
func (s Status) Fancy() string {
	label := fmt.Sprintf("%-5s", s.String())
	switch s {
	case StatusGood:
		return color.Green.Render(label)
	case StatusBad:
		return color.Red.Render(label)
	default:
		return color.Yellow.Render(label)
	}
}

// RebuilderdPackage is a package record of the rebuilderd package list.
type RebuilderdPackage struct {
	Name         string  `json:"name"`
	Version      string  `json:"version"`
	Status       Status  `json:"status"`
	Distro       string  `json:"distro"`
	Suite        string  `json:"suite"`
	Architecture string  `json:"architecture"`
	URL          string  `json:"url"`
	BuildID      *int64  `json:"build_id,omitempty"`
	BuiltAt      *string `json:"built_at,omitempty"`
	NextRetry    *string `json:"next_retry,omitempty"`
}

// UnmarshalJSON accepts both the snake_case and camelCase spelling of the build id.
func (p *RebuilderdPackage) UnmarshalJSON(data []byte) error {
	type plain RebuilderdPackage
	aux := struct {
		*plain
		BuildIDCamel *int64 `json:"buildId"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.BuildID == nil {
		p.BuildID = aux.BuildIDCamel
	}
	return nil
}

// GetBuildID returns the build id or 0 when rebuilderd has not built the package yet.
func (p *RebuilderdPackage) GetBuildID() int64 {
	if p.BuildID == nil {
		return 0
	}
	return *p.BuildID
}
