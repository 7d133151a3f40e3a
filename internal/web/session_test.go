package web

import (
	"context"
	"testing"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTouchCreatesAndReuses(t *testing.T) {
	s := NewSessionStore(time.Hour, 3)

	a := s.Touch("")
	require.NotEmpty(t, a.ID)
	assert.Equal(t, ThemeLight, a.Theme)

	b := s.Touch(a.ID)
	assert.Equal(t, a.ID, b.ID)

	c := s.Touch("forged-id")
	assert.NotEqual(t, "forged-id", c.ID)
	assert.Equal(t, 2, s.Len())
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionStore(time.Minute, 3)
	s.now = func() time.Time { return now }

	sess := s.Touch("")
	s.AddResult(sess.ID, &Result{ID: "r1"})
	_, ok := s.Result(sess.ID, "r1")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = s.Result(sess.ID, "r1")
	assert.False(t, ok, "expired session keeps no downloads")

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Len())

	fresh := s.Touch(sess.ID)
	assert.NotEqual(t, sess.ID, fresh.ID)
}

func TestSessionResultsBounded(t *testing.T) {
	s := NewSessionStore(time.Hour, 2)
	sess := s.Touch("")
	for _, id := range []string{"r1", "r2", "r3"} {
		s.AddResult(sess.ID, &Result{ID: id})
	}
	_, ok := s.Result(sess.ID, "r1")
	assert.False(t, ok)
	_, ok = s.Result(sess.ID, "r3")
	assert.True(t, ok)
	assert.Len(t, s.Touch(sess.ID).Results, 2)
}

func TestSessionTheme(t *testing.T) {
	s := NewSessionStore(time.Hour, 2)
	sess := s.Touch("")
	s.SetTheme(sess.ID, sess.Theme.Toggle())
	assert.Equal(t, ThemeDark, s.Touch(sess.ID).Theme)
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
}

func TestResultArtifact(t *testing.T) {
	r := &Result{Artifacts: []engine.Artifact{{Kind: engine.KindMCQ, Markdown: "q"}}}
	a, ok := r.Artifact(engine.KindMCQ)
	assert.True(t, ok)
	assert.Equal(t, "q", a.Markdown)
	_, ok = r.Artifact(engine.KindSummary)
	assert.False(t, ok)
}

func TestSessionRunStops(t *testing.T) {
	s := NewSessionStore(time.Millisecond, 1)
	s.Touch("")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
