package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startCall struct {
	name string
	args []string
}

func recordingOpener(command, goos string, err error) (*Opener, *[]startCall) {
	var calls []startCall
	o := NewOpener(command, NullLogger())
	o.goos = goos
	o.start = func(name string, args ...string) error {
		calls = append(calls, startCall{name, args})
		return err
	}
	return o, &calls
}

func TestOpenerSystemDefault(t *testing.T) {
	const url = "https://flagcdn.com/w320/fr.png"
	tests := []struct {
		goos string
		want startCall
	}{
		{"darwin", startCall{"open", []string{url}}},
		{"windows", startCall{"cmd", []string{"/c", "start", "", url}}},
		{"linux", startCall{"xdg-open", []string{url}}},
		{"freebsd", startCall{"xdg-open", []string{url}}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			o, calls := recordingOpener("", tt.goos, nil)
			require.NoError(t, o.Open(url))
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0])
		})
	}
}

func TestOpenerConfiguredCommand(t *testing.T) {
	o, calls := recordingOpener("firefox --new-tab", "linux", nil)

	require.NoError(t, o.Open(" https://example.org/fr "))
	require.NoError(t, o.Open("https://example.org/de"))

	require.Len(t, *calls, 2)
	assert.Equal(t, startCall{"firefox", []string{"--new-tab", "https://example.org/fr"}}, (*calls)[0])
	assert.Equal(t, startCall{"firefox", []string{"--new-tab", "https://example.org/de"}}, (*calls)[1])
}

func TestOpenerErrors(t *testing.T) {
	boom := errors.New("boom")
	o, calls := recordingOpener("", "linux", boom)

	assert.ErrorIs(t, o.Open("  "), ErrEmptyURL)
	assert.Empty(t, *calls)

	assert.ErrorIs(t, o.Open("https://example.org"), boom)
}
