package driver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis"
)

func TestLibraryPaths(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr string
	}{
		{
			name: "two artifacts",
			raw:  `["/libs/libfoo@go1.25.0-linux-amd64.so","/libs/libbar@go1.25.0-linux-amd64.so"]`,
			want: []string{"/libs/libfoo@go1.25.0-linux-amd64.so", "/libs/libbar@go1.25.0-linux-amd64.so"},
		},
		{
			name:    "unset",
			raw:     "",
			wantErr: "is not set",
		},
		{
			name:    "empty list",
			raw:     `[]`,
			wantErr: "names no artifacts",
		},
		{
			name:    "not json",
			raw:     `/libs/libfoo.so`,
			wantErr: "parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := libraryPaths(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNoteProvidersRejectsDuplicates(t *testing.T) {
	providedBy := make(map[string]string)
	first := []*analysis.Analyzer{{Name: "unusedmutex"}, {Name: "sleepyloop"}}
	second := []*analysis.Analyzer{{Name: "unusedmutex"}}

	require.NoError(t, noteProviders(providedBy, first, "/libs/a.so"))

	err := noteProviders(providedBy, second, "/libs/b.so")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `analyzer "unusedmutex"`)
	assert.Contains(t, err.Error(), "/libs/a.so")
	assert.Contains(t, err.Error(), "/libs/b.so")
}

func TestListPrintsSortedFirstDocLine(t *testing.T) {
	analyzers := []*analysis.Analyzer{
		{Name: "unusedmutex", Doc: "finds mutexes that are never locked"},
		{Name: "sleepyloop", Doc: "flags time.Sleep inside loops\n\nlong form"},
	}

	var buf bytes.Buffer
	list(&buf, analyzers)

	assert.Equal(t,
		"sleepyloop\tflags time.Sleep inside loops\n"+
			"unusedmutex\tfinds mutexes that are never locked\n",
		buf.String())
}
