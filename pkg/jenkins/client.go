package jenkins

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/itms-toolkit/itms-publisher/pkg/version"
)

// validJobNamePattern matches a single job or folder name
// Rejects path separators and special characters
var validJobNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._ -]+$`)

// jobPath converts a JOB_NAME such as "folder/job" into its REST path "/job/folder/job/job".
func jobPath(jobName string) (string, error) {
	if jobName == "" {
		return "", fmt.Errorf("job name cannot be empty")
	}

	var b strings.Builder
	for _, segment := range strings.Split(jobName, "/") {
		// Reject path traversal attempts explicitly
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("job name %q contains an empty or relative segment", jobName)
		}
		if !validJobNamePattern.MatchString(segment) {
			return "", fmt.Errorf("job name %q contains invalid characters", jobName)
		}
		b.WriteString("/job/")
		b.WriteString(url.PathEscape(segment))
	}
	return b.String(), nil
}

// validateBaseURL ensures only http/https URLs with a host are used
func validateBaseURL(baseURL string) error {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed")
	}
	if parsed.Hostname() == "" {
		return fmt.Errorf("URL has no hostname")
	}
	return nil
}

// Client reads build information from the Jenkins REST API
type Client struct {
	baseURL string
	rest    *resty.Client
}

// BuildInfo is the part of /job/<job>/<n>/api/json the publisher uses
type BuildInfo struct {
	Number   int
	Result   string
	Building bool
	UserID   string
}

// NewClient creates a new Jenkins client
func NewClient(baseURL, username, apiToken string) (*Client, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	rest := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent())
	if username != "" {
		rest.SetBasicAuth(username, apiToken)
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		rest:    rest,
	}, nil
}

// Name returns the platform name
func (c *Client) Name() string {
	return "jenkins"
}

// GetBuildInfo retrieves the result and triggering user of a build
func (c *Client) GetBuildInfo(ctx context.Context, jobName string, number int) (*BuildInfo, error) {
	path, err := jobPath(jobName)
	if err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, fmt.Errorf("invalid build number: %d", number)
	}

	endpoint := fmt.Sprintf("%s%s/%d/api/json", c.baseURL, path, number)
	res, err := c.rest.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get build info: %w", err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("build %d of %s not found", number, jobName)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode())
	}

	body := res.Body()
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	info := &BuildInfo{
		Number:   int(doc.Get("number").Int()),
		Result:   doc.Get("result").String(),
		Building: doc.Get("building").Bool(),
	}

	// The triggering user is recorded as a UserIdCause inside the CauseAction
	doc.Get("actions").ForEach(func(_, action gjson.Result) bool {
		action.Get("causes").ForEach(func(_, cause gjson.Result) bool {
			if id := cause.Get("userId").String(); id != "" {
				info.UserID = id
				return false
			}
			return true
		})
		return info.UserID == ""
	})

	return info, nil
}

// Resolve fills the result and user of b from the REST API when they are missing
func (c *Client) Resolve(ctx context.Context, b *Build) error {
	if b.Result != "" && b.User != "" {
		return nil
	}

	info, err := c.GetBuildInfo(ctx, b.JobName, b.Number)
	if err != nil {
		return err
	}

	if b.Result == "" {
		b.Result = info.Result
	}
	if b.User == "" {
		b.User = info.UserID
	}
	return nil
}
