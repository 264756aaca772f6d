// Package deps checks that the external programs an encoder engine needs can
// be resolved before the encode starts.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program an engine relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// MediaTools are the programs the drapto library shells out to.
var MediaTools = []Requirement{
	{Name: "FFmpeg", Command: "ffmpeg", Description: "Used by drapto for encoding"},
	{Name: "FFprobe", Command: "ffprobe", Description: "Used by drapto for media analysis"},
}

// Check resolves a single requirement. Commands containing a path separator
// are checked in place; bare names are looked up on PATH.
func Check(req Requirement) Status {
	cmd := strings.TrimSpace(req.Command)
	status := Status{
		Name:        req.Name,
		Command:     cmd,
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if cmd == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(cmd)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", cmd)
		return status
	}
	status.Available = true
	status.Path = resolved
	return status
}

// CheckBinaries evaluates the provided requirements in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, Check(req))
	}
	return results
}

// Missing returns the unavailable entries of statuses.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, s := range statuses {
		if !s.Available {
			missing = append(missing, s)
		}
	}
	return missing
}
