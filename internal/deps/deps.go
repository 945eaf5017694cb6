package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external executable and whether a run can proceed
// without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is a Requirement after lookup. Path is set when Available; Detail
// explains a failed lookup.
type Status struct {
	Requirement
	Path      string
	Available bool
	Detail    string
}

var errNotConfigured = errors.New("command not configured")

// CheckBinaries looks up every requirement, preserving order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = Status{Requirement: req}
		path, err := Resolve(req.Command)
		if err != nil {
			results[i].Detail = err.Error()
			continue
		}
		results[i].Path = path
		results[i].Available = true
	}
	return results
}

// Resolve returns the executable path for command. Bare names are looked up
// on PATH; paths must point at an executable file.
func Resolve(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errNotConfigured
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("binary %q not found", command)
	}
	return path, nil
}

// MissingRequired filters statuses down to unavailable, non-optional entries.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
