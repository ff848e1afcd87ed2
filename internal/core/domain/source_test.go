package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSourceName(t *testing.T) {
	tests := []struct {
		in     string
		want   SourceName
		wantOK bool
	}{
		{"google_drive", SourceGoogleDrive, true},
		{"Google-Drive", SourceGoogleDrive, true},
		{" gdrive ", SourceGoogleDrive, true},
		{"googleDrive", SourceGoogleDrive, true},
		{"JIRA", SourceJira, true},
		{"atlassian", SourceJira, true},
		{"notion", SourceNotion, true},
		{"github", SourceGitHub, true},
		{"dropbox", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSourceName(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceName_DisplayName(t *testing.T) {
	assert.Equal(t, "Google Drive", SourceGoogleDrive.DisplayName())
	assert.Equal(t, "JIRA", SourceJira.DisplayName())
	assert.Equal(t, "Notion", SourceNotion.DisplayName())
	assert.Equal(t, "GitHub", SourceGitHub.DisplayName())
	assert.Equal(t, "other", SourceName("other").DisplayName())
}

func TestSortByPriority(t *testing.T) {
	sources := []SourceName{SourceGitHub, SourceNotion, "zzz", SourceGoogleDrive, SourceJira}
	SortByPriority(sources)
	assert.Equal(t, []SourceName{SourceJira, SourceGoogleDrive, SourceNotion, SourceGitHub, "zzz"}, sources)
}

func TestSearchQuery_ConnectedSources(t *testing.T) {
	q := SearchQuery{
		Raw: "anything",
		Credentials: map[SourceName]Credentials{
			SourceNotion:      {AccessToken: "n"},
			SourceJira:        {AccessToken: "j", CloudID: "c"},
			SourceGoogleDrive: {AccessToken: "  "},
			"dropbox":         {AccessToken: "d"},
			"google-drive":    {AccessToken: "alias"},
		},
	}

	assert.Equal(t, []SourceName{SourceJira, SourceNotion}, q.ConnectedSources())
}

func TestSearchQuery_ConnectedSources_Empty(t *testing.T) {
	assert.Empty(t, SearchQuery{}.ConnectedSources())
}

func TestCredentialsFromStrings(t *testing.T) {
	got := CredentialsFromStrings(map[string]Credentials{
		"googleDrive": {AccessToken: "g"},
		"jira":        {AccessToken: "j", CloudID: "cloud"},
		"slack":       {AccessToken: "s"},
	})

	assert.Len(t, got, 2)
	assert.Equal(t, "g", got[SourceGoogleDrive].AccessToken)
	assert.Equal(t, "cloud", got[SourceJira].CloudID)
}
