// Package itms is a client for the iTMS test-management REST service.
package itms

import (
	"fmt"
	"net/http"
)

const (
	// ServiceName identifies this integration to iTMS.
	ServiceName = "jenkins"
	// CyclePath lists the test cycles of a project.
	CyclePath = "/api/v2/cycle"
	// RequestIDHeader carries the run id of the publishing invocation.
	RequestIDHeader = "X-Request-ID"
)

// Credentials authenticate against iTMS. They travel in the request body.
type Credentials struct {
	Username string
	Token    string
}

// ExecutionAttributes describes the build that produced a report.
type ExecutionAttributes struct {
	BuildNumber int    `json:"build_number"`
	BuildStatus string `json:"build_status"`
	User        string `json:"user"`
	ReportType  string `json:"report_type"`
}

// Submission is the body POSTed for one report file.
type Submission struct {
	Username      string                `json:"username"`
	ServiceName   string                `json:"service_name"`
	Token         string                `json:"token"`
	ProjectName   string                `json:"project_name"`
	Attributes    []ExecutionAttributes `json:"jenkins_auto_executions_attributes"`
	TicketKey     string                `json:"ticket_key"`
	CycleName     string                `json:"cycle_name"`
	IsJSON        bool                  `json:"is_json"`
	ReportContent string                `json:"report_content"`
}

type connectionCheck struct {
	Username    string `json:"username"`
	ServiceName string `json:"service_name"`
	Token       string `json:"token"`
}

// Cycle is a named test-execution cycle.
type Cycle struct {
	ID   int64
	Name string
}

// Response is the status and body returned by iTMS.
type Response struct {
	Code int
	Body string
}

// OK reports whether iTMS answered 200.
func (r *Response) OK() bool {
	return r != nil && r.Code == http.StatusOK
}

func (r *Response) String() string {
	if r == nil {
		return "no response"
	}
	return fmt.Sprintf("code: %d, message: %s", r.Code, r.Body)
}
