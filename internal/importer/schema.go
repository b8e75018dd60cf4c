package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ProjectFile is the top-level JSON structure of a saved crew plan.
type ProjectFile struct {
	Name        string             `json:"name"`
	Months      []string           `json:"months"`
	Phases      []PhaseImport      `json:"phases,omitempty"`
	Departments []DepartmentImport `json:"departments"`
	ItemOrder   []ItemRefImport    `json:"item_order,omitempty"`
}

// PhaseImport defines a phase in the project file.
type PhaseImport struct {
	Name       string `json:"name"`
	StartMonth int    `json:"start_month"`
	EndMonth   int    `json:"end_month"`
}

// DepartmentImport defines a department in the project file. Crew is
// optional; without it the crew row is generated from the ramps.
type DepartmentImport struct {
	Name             string   `json:"name"`
	MaxCrew          int      `json:"max_crew"`
	StartMonth       int      `json:"start_month"`
	EndMonth         int      `json:"end_month"`
	RampUpDuration   *int     `json:"ramp_up_duration,omitempty"`
	RampDownDuration *int     `json:"ramp_down_duration,omitempty"`
	Rate             *float64 `json:"rate,omitempty"`
	Phase            *int     `json:"phase,omitempty"`
	Crew             []int    `json:"crew,omitempty"`
	CrewSource       string   `json:"crew_source,omitempty"`
}

// ItemRefImport is one entry of the display order.
type ItemRefImport struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// DecodeProjectFile parses a project file from r. Unknown fields are rejected.
func DecodeProjectFile(r io.Reader) (*ProjectFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var pf ProjectFile
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}
	return &pf, nil
}

// LoadProjectFile reads and parses a project JSON file.
func LoadProjectFile(path string) (*ProjectFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeProjectFile(f)
}
