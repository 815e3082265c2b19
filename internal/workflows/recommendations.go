package workflows

import (
	"fmt"
	"regexp"
	"strings"
)

var actionRefPattern = regexp.MustCompile(`([\w\-]+/[\w\-]+)@(v?\d+)`)

// recommendationFor generates remediation text keyed on the check name,
// pattern-matched against the finding message.
func recommendationFor(checkName, message string) string {
	switch checkName {
	case "Dangerous-Workflow":
		return recommendDangerousWorkflow(message)
	case "Token-Permissions":
		return recommendTokenPermissions(message)
	case "Pinned-Dependencies":
		return recommendPinnedDependencies(message)
	default:
		return "Review and remediate this security issue."
	}
}

func recommendDangerousWorkflow(message string) string {
	lowered := strings.ToLower(message)

	if strings.Contains(lowered, "pull_request_target") {
		return "Replace 'pull_request_target' with 'pull_request' trigger. " +
			"If you must use pull_request_target, add explicit permission checks " +
			"and avoid checking out PR code."
	}
	if strings.Contains(lowered, "untrusted") || strings.Contains(lowered, "injection") {
		return "Avoid using untrusted input directly in shell commands. " +
			"Use environment variables or GITHUB_ENV file instead. " +
			"Example: echo \"INPUT=${{ inputs.value }}\" >> $GITHUB_ENV"
	}
	return "Review workflow for dangerous patterns and follow GitHub Actions security best practices."
}

func recommendTokenPermissions(message string) string {
	lowered := strings.ToLower(message)

	if strings.Contains(lowered, "write-all") || strings.Contains(lowered, "write") {
		return "Use minimal permissions. Replace 'permissions: write-all' with specific permissions. " +
			"Example:\npermissions:\n  contents: read\n  pull-requests: write"
	}
	return "Review and minimize token permissions to only what's necessary."
}

func recommendPinnedDependencies(message string) string {
	if match := actionRefPattern.FindStringSubmatch(message); match != nil {
		action := match[1]
		return fmt.Sprintf("Pin '%s' to a specific commit SHA instead of a tag. "+
			"Visit https://github.com/%s/releases to find the commit SHA "+
			"for the version you want to use.", action, action)
	}
	return "Pin all GitHub Actions to specific commit SHAs instead of tags for supply chain security. " +
		"Example: uses: actions/checkout@8e5e7e5ab8b370d6c329ec480221332ada57f0ab"
}
