package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/3912345678/", PlatformLinkedIn},
		{"https://dk.linkedin.com/jobs/view/platform-engineer-at-nordic-3912345680", PlatformLinkedIn},
		{"https://www.jobindex.dk/jobsoegning?q=golang", PlatformJobindex},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/abc-123", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://careers.example.com/jobs/42", PlatformUnknown},
		{"https://notlinkedin.com/jobs/view/1", PlatformUnknown},
		{"not a url", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, NeedsBrowser(PlatformLinkedIn))
	assert.True(t, NeedsBrowser(PlatformWorkday))
	assert.False(t, NeedsBrowser(PlatformGreenhouse))
	assert.False(t, NeedsBrowser(PlatformUnknown))
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("   Loading...  "))
	assert.False(t, ShouldUseBrowser(string(make([]byte, MinContentLength+1))))
}
