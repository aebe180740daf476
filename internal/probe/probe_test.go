package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "app-time-tracker/internal/errors"
)

func sh(script string) []string {
	return []string{"sh", "-c", script}
}

func TestSample(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.True(t, App("").IsNone())
	assert.False(t, App("Code").IsNone())
	assert.Equal(t, App("Code"), App("Code"))
	assert.NotEqual(t, App("Code"), None)
	assert.Equal(t, "<none>", None.String())
	assert.Equal(t, "Code", App("Code").String())
}

func TestCommandProbe(t *testing.T) {
	ctx := context.Background()

	t.Run("reads first non-empty line", func(t *testing.T) {
		p := NewCommandProbe(sh("printf '\\n  Code  \\nother\\n'"), time.Second)
		s, err := p.Sample(ctx)
		require.NoError(t, err)
		assert.Equal(t, App("Code"), s)
	})

	t.Run("empty output is none", func(t *testing.T) {
		p := NewCommandProbe(sh("true"), time.Second)
		s, err := p.Sample(ctx)
		require.NoError(t, err)
		assert.True(t, s.IsNone())
	})

	t.Run("non-zero exit is none", func(t *testing.T) {
		p := NewCommandProbe(sh("echo Code; exit 1"), time.Second)
		s, err := p.Sample(ctx)
		require.NoError(t, err)
		assert.True(t, s.IsNone())
	})

	t.Run("missing binary is a probe error", func(t *testing.T) {
		p := NewCommandProbe([]string{"/nonexistent/att-probe"}, time.Second)
		s, err := p.Sample(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeProbe))
		assert.True(t, s.IsNone())
	})

	t.Run("timeout is a probe error", func(t *testing.T) {
		p := NewCommandProbe(sh("exec sleep 5"), 50*time.Millisecond)
		_, err := p.Sample(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeProbe))
	})
}

type fakeNamer struct {
	names map[int]string
	err   error
}

func (f fakeNamer) ProcessName(pid int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	name, ok := f.names[pid]
	if !ok {
		return "", ErrProcessGone
	}
	return name, nil
}

func TestPIDProbe(t *testing.T) {
	ctx := context.Background()
	namer := fakeNamer{names: map[int]string{4242: "firefox"}}

	tests := []struct {
		name    string
		script  string
		namer   ProcessNamer
		want    Sample
		wantErr bool
	}{
		{name: "resolves pid", script: "echo 4242", namer: namer, want: App("firefox")},
		{name: "gone process", script: "echo 999", namer: namer, want: None},
		{name: "no focused window", script: "exit 1", namer: namer, want: None},
		{name: "garbage output", script: "echo abc", namer: namer, wantErr: true},
		{name: "zero pid", script: "echo 0", namer: namer, wantErr: true},
		{name: "lookup failure", script: "echo 4242", namer: fakeNamer{err: errors.New("boom")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPIDProbe(NewCommandProbe(sh(tt.script), time.Second), tt.namer)
			got, err := p.Sample(ctx)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeProbe))
				assert.True(t, got.IsNone())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	p, err := New(Options{Command: sh("echo Code"), Output: OutputName, Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &CommandProbe{}, p)

	p, err = New(Options{Command: sh("echo 1"), Output: OutputPID})
	require.NoError(t, err)
	assert.IsType(t, &PIDProbe{}, p)

	_, err = New(Options{Command: nil})
	assert.Error(t, err)

	_, err = New(Options{Command: sh("true"), Output: "window"})
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	var p Probe = Func(func(context.Context) (Sample, error) { return App("vim"), nil })
	s, err := p.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, App("vim"), s)
}
