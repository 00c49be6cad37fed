// Package jenkins resolves the context of the Jenkins build whose reports are published.
package jenkins

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables set by Jenkins on every build.
const (
	EnvJenkinsHome = "JENKINS_HOME"
	EnvJenkinsURL  = "JENKINS_URL"
	EnvBuildNumber = "BUILD_NUMBER"
	EnvWorkspace   = "WORKSPACE"
	EnvJobName     = "JOB_NAME"
	// EnvBuildUserID is provided by the build-user-vars plugin.
	EnvBuildUserID = "BUILD_USER_ID"
)

// Build is what the publishing step needs to know about a build.
type Build struct {
	Number    int
	Result    string
	User      string
	Workspace string
	JobName   string
	URL       string
}

// Detect reports whether the process runs inside a Jenkins build.
func Detect(getenv func(string) string) bool {
	return getenv(EnvJenkinsHome) != "" || getenv(EnvJenkinsURL) != ""
}

// FromEnv reads the build from Jenkins environment variables.
// Missing variables leave fields empty; a malformed build number is an error.
func FromEnv(getenv func(string) string) (*Build, error) {
	b := &Build{
		Workspace: getenv(EnvWorkspace),
		JobName:   getenv(EnvJobName),
		URL:       strings.TrimSuffix(getenv(EnvJenkinsURL), "/"),
		User:      getenv(EnvBuildUserID),
	}

	if n := strings.TrimSpace(getenv(EnvBuildNumber)); n != "" {
		num, err := strconv.Atoi(n)
		if err != nil || num <= 0 {
			return nil, fmt.Errorf("invalid %s %q: must be a positive integer", EnvBuildNumber, n)
		}
		b.Number = num
	}

	return b, nil
}
