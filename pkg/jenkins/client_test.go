// Package jenkins tests
package jenkins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const buildJSON = `{
	"number": 42,
	"result": "UNSTABLE",
	"building": false,
	"actions": [
		{"_class": "hudson.model.ParametersAction"},
		{"_class": "hudson.model.CauseAction", "causes": [
			{"_class": "hudson.model.Cause$UserIdCause", "userId": "bob", "userName": "Bob"}
		]}
	]
}`

func TestNewClient(t *testing.T) {
	client, err := NewClient("http://localhost:8080/", "user", "token")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.Name() != "jenkins" {
		t.Errorf("Expected name 'jenkins', got '%s'", client.Name())
	}

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected base URL 'http://localhost:8080', got '%s'", client.baseURL)
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	for _, u := range []string{"ftp://jenkins", "jenkins:8080", "http://", "://"} {
		if _, err := NewClient(u, "", ""); err == nil {
			t.Errorf("Expected error for %q", u)
		}
	}
}

func TestJobPath(t *testing.T) {
	tests := []struct {
		job     string
		want    string
		wantErr bool
	}{
		{"app", "/job/app", false},
		{"team/app", "/job/team/job/app", false},
		{"team/my app", "/job/team/job/my%20app", false},
		{"", "", true},
		{"team//app", "", true},
		{"../app", "", true},
		{"team/./app", "", true},
		{"app?x=1", "", true},
	}

	for _, tt := range tests {
		got, err := jobPath(tt.job)
		if tt.wantErr {
			if err == nil {
				t.Errorf("jobPath(%q): expected error", tt.job)
			}
			continue
		}
		if err != nil {
			t.Errorf("jobPath(%q): unexpected error %v", tt.job, err)
			continue
		}
		if got != tt.want {
			t.Errorf("jobPath(%q) = %q, want %q", tt.job, got, tt.want)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/team/job/app/42/api/json" {
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		// Check basic auth
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Basic ") {
			t.Error("Expected basic auth header")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(buildJSON))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "user", "token")

	info, err := client.GetBuildInfo(context.Background(), "team/app", 42)
	if err != nil {
		t.Fatalf("GetBuildInfo failed: %v", err)
	}

	if info.Number != 42 {
		t.Errorf("Expected number 42, got %d", info.Number)
	}
	if info.Result != "UNSTABLE" {
		t.Errorf("Expected result UNSTABLE, got %s", info.Result)
	}
	if info.Building {
		t.Error("Expected building to be false")
	}
	if info.UserID != "bob" {
		t.Errorf("Expected user bob, got %s", info.UserID)
	}
}

func TestGetBuildInfoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "", "")

	_, err := client.GetBuildInfo(context.Background(), "app", 7)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestGetBuildInfoErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/broken/") {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{not json`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "", "")

	if _, err := client.GetBuildInfo(context.Background(), "app", 1); err == nil {
		t.Error("Expected error for status 500")
	}
	if _, err := client.GetBuildInfo(context.Background(), "broken", 1); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if _, err := client.GetBuildInfo(context.Background(), "app", 0); err == nil {
		t.Error("Expected error for build number 0")
	}
}

func TestResolve(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(buildJSON))
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "user", "token")

	b := &Build{Number: 42, JobName: "app", Result: "SUCCESS"}
	if err := client.Resolve(context.Background(), b); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if b.Result != "SUCCESS" {
		t.Errorf("Expected result to be kept, got %s", b.Result)
	}
	if b.User != "bob" {
		t.Errorf("Expected user bob, got %s", b.User)
	}

	complete := &Build{Number: 42, JobName: "app", Result: "FAILURE", User: "carol"}
	if err := client.Resolve(context.Background(), complete); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 request, got %d", calls)
	}
}
