package gitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantNum   int
		wantErr   bool
	}{
		{
			name:      "https URL",
			url:       "https://github.com/acme/widgets/pull/42",
			wantOwner: "acme",
			wantRepo:  "widgets",
			wantNum:   42,
		},
		{
			name:      "no scheme",
			url:       "github.com/acme/widgets/pull/7",
			wantOwner: "acme",
			wantRepo:  "widgets",
			wantNum:   7,
		},
		{
			name:      "trailing slash",
			url:       "https://github.com/acme/widgets/pull/7/",
			wantOwner: "acme",
			wantRepo:  "widgets",
			wantNum:   7,
		},
		{name: "issue URL", url: "https://github.com/acme/widgets/issues/7", wantErr: true},
		{name: "files subpage", url: "https://github.com/acme/widgets/pull/7/files", wantErr: true},
		{name: "non-numeric number", url: "https://github.com/acme/widgets/pull/abc", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, number, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantNum, number)
		})
	}
}
