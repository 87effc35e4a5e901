package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"augustinus/pkg/keys"
)

type sentKey struct {
	pane  PaneID
	bytes []byte
}

// recordingSink captures the encoded bytes each forwarded key would produce.
type recordingSink struct {
	sent []sentKey
	err  error
}

func (r *recordingSink) SendKey(pane PaneID, k keys.Key) error {
	r.sent = append(r.sent, sentKey{pane: pane, bytes: keys.Encode(k)})
	return r.err
}

func lockedOn(pane PaneID) State {
	s := NewState(ResetOnBlur)
	s.Focused = pane
	return Apply(s, Act(EnterTerminal))
}

func TestLockedPaneForwardsEverythingButEsc(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	inputs := []keys.Key{
		keys.Rune('h'), keys.Rune('j'), keys.Rune('k'), keys.Rune('l'),
		keys.Rune(':'), keys.Rune('f'), keys.Rune(' '),
		keys.Named(keys.CodeTab), keys.Named(keys.CodeEnter),
		keys.Named(keys.CodeBackspace), keys.Named(keys.CodeUp),
		keys.Named(keys.CodeLeft), keys.Ctrl('a'), keys.Ctrl('d'),
		keys.Named(keys.CodeNone),
	}

	for _, pane := range InteractivePanes {
		t.Run(pane.String(), func(t *testing.T) {
			t.Parallel()
			sink := &recordingSink{}
			start := lockedOn(pane)
			s := start
			for _, k := range inputs {
				var res Result
				s, res = r.HandleKey(s, k, sink)
				require.Equal(t, Forwarded, res.Outcome, "key %q", k)
				assert.Equal(t, pane, res.Pane)
				assert.Equal(t, start, s, "forwarded key %q changed state", k)
			}

			require.Len(t, sink.sent, len(inputs))
			for i, k := range inputs {
				assert.Equal(t, pane, sink.sent[i].pane)
				assert.Equal(t, keys.Encode(k), sink.sent[i].bytes)
			}
		})
	}
}

func TestEscUnlocks(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	sink := &recordingSink{}

	s, res := r.HandleKey(lockedOn(General), keys.Named(keys.CodeEsc), sink)
	assert.Equal(t, Handled, res.Outcome)
	assert.Equal(t, AppControls, s.Mode(General))
	assert.Equal(t, General, s.Focused)
	assert.Empty(t, sink.sent, "Esc must not reach the terminal")
}

func TestEscWhileUnlockedHasNoLockEffect(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	s := NewState(ResetOnBlur)
	s.Focused = General

	next, res := r.HandleKey(s, keys.Named(keys.CodeEsc), nil)
	assert.Equal(t, Ignored, res.Outcome)
	assert.Equal(t, s, next)

	s.Fullscreen = General
	next, res = r.HandleKey(s, keys.Named(keys.CodeEsc), nil)
	assert.Equal(t, Handled, res.Outcome)
	assert.Equal(t, NoPane, next.Fullscreen)
	assert.Equal(t, AppControls, next.Mode(General))
}

func TestInterruptWinsEverywhere(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	sink := &recordingSink{}

	command := Apply(NewState(ResetOnBlur), Act(EnterCommandMode))
	states := map[string]State{
		"app controls": NewState(ResetOnBlur),
		"locked":       lockedOn(Agents),
		"command":      command,
	}
	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			next, res := r.HandleKey(s, keys.Ctrl('c'), sink)
			assert.Equal(t, Quit, res.Outcome)
			assert.Equal(t, s, next)
		})
	}
	assert.Empty(t, sink.sent)
}

func TestCustomInterrupt(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap("ctrl+q"))
	sink := &recordingSink{}

	_, res := r.HandleKey(lockedOn(General), keys.Ctrl('c'), sink)
	assert.Equal(t, Forwarded, res.Outcome)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, []byte{0x03}, sink.sent[0].bytes)

	_, res = r.HandleKey(lockedOn(General), keys.Ctrl('q'), sink)
	assert.Equal(t, Quit, res.Outcome)
}

func TestCommandModePreemptsPaneRouting(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	sink := &recordingSink{}
	s := NewState(ResetOnBlur)
	s.Focused = General

	s, res := r.HandleKey(s, keys.Rune(':'), sink)
	require.Equal(t, Handled, res.Outcome)
	require.True(t, s.CommandActive)

	for _, k := range []keys.Key{keys.Rune('q'), keys.Rune('u'), keys.Rune('i'), keys.Rune('x')} {
		s, _ = r.HandleKey(s, k, sink)
	}
	s, _ = r.HandleKey(s, keys.Named(keys.CodeBackspace), sink)
	s, _ = r.HandleKey(s, keys.Rune('t'), sink)
	assert.Equal(t, "quit", s.Command)
	assert.Equal(t, General, s.Focused, "h/j/k/l are text in command mode")

	// Non-editing keys are swallowed.
	before := s
	s, res = r.HandleKey(s, keys.Named(keys.CodeTab), sink)
	assert.Equal(t, Ignored, res.Outcome)
	assert.Equal(t, before, s)
	s, res = r.HandleKey(s, keys.Ctrl('a'), sink)
	assert.Equal(t, Ignored, res.Outcome)
	assert.Equal(t, before, s)

	s, res = r.HandleKey(s, keys.Named(keys.CodeEnter), sink)
	assert.Equal(t, Submitted, res.Outcome)
	assert.Equal(t, "quit", res.Command)
	assert.False(t, s.CommandActive)
	assert.Empty(t, sink.sent)
}

func TestCommandModeEscCancels(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	s := Apply(NewState(ResetOnBlur), Act(EnterCommandMode))
	s = Apply(s, Append('x'))

	s, res := r.HandleKey(s, keys.Named(keys.CodeEsc), nil)
	assert.Equal(t, Handled, res.Outcome)
	assert.False(t, s.CommandActive)
	assert.Empty(t, s.LastCommand)
}

func TestAppKeys(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	tests := []struct {
		name  string
		from  PaneID
		key   keys.Key
		check func(t *testing.T, s State)
	}{
		{"l moves right", Motivation, keys.Rune('l'), func(t *testing.T, s State) {
			assert.Equal(t, General, s.Focused)
		}},
		{"right arrow moves right", Motivation, keys.Named(keys.CodeRight), func(t *testing.T, s State) {
			assert.Equal(t, General, s.Focused)
		}},
		{"j moves down", Motivation, keys.Rune('j'), func(t *testing.T, s State) {
			assert.Equal(t, Agents, s.Focused)
		}},
		{"k moves up", Stats, keys.Rune('k'), func(t *testing.T, s State) {
			assert.Equal(t, General, s.Focused)
		}},
		{"h moves left", General, keys.Rune('h'), func(t *testing.T, s State) {
			assert.Equal(t, Motivation, s.Focused)
		}},
		{"tab rotates", Stats, keys.Named(keys.CodeTab), func(t *testing.T, s State) {
			assert.Equal(t, Motivation, s.Focused)
		}},
		{"enter locks interactive pane", Agents, keys.Named(keys.CodeEnter), func(t *testing.T, s State) {
			assert.Equal(t, TerminalLocked, s.Mode(Agents))
			assert.Equal(t, NoPane, s.Fullscreen)
		}},
		{"enter fullscreens informational pane", Stats, keys.Named(keys.CodeEnter), func(t *testing.T, s State) {
			assert.Equal(t, Stats, s.Fullscreen)
			assert.False(t, s.Locked())
		}},
		{"f fullscreens interactive pane", General, keys.Rune('f'), func(t *testing.T, s State) {
			assert.Equal(t, General, s.Fullscreen)
			assert.False(t, s.Locked())
		}},
		{"colon opens command line", Motivation, keys.Rune(':'), func(t *testing.T, s State) {
			assert.True(t, s.CommandActive)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewState(ResetOnBlur)
			s.Focused = tt.from
			next, res := r.HandleKey(s, tt.key, nil)
			assert.Equal(t, Handled, res.Outcome)
			tt.check(t, next)
		})
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	s := NewState(ResetOnBlur)
	next, res := r.HandleKey(s, keys.Rune('z'), nil)
	assert.Equal(t, Ignored, res.Outcome)
	assert.Equal(t, s, next)
}

func TestForwardErrorIsReported(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	boom := errors.New("pipe closed")
	sink := &recordingSink{err: boom}

	s := lockedOn(General)
	next, res := r.HandleKey(s, keys.Rune('x'), sink)
	assert.Equal(t, Forwarded, res.Outcome)
	assert.ErrorIs(t, res.Err, boom)
	assert.Equal(t, s, next, "a failed write leaves the pane locked")
}

func TestLockThenNavigateAway(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	s := NewState(ResetOnBlur)

	s, _ = r.HandleKey(s, keys.Rune('l'), nil)
	s, _ = r.HandleKey(s, keys.Named(keys.CodeEnter), nil)
	require.True(t, s.Locked())

	// h goes to the shell while locked.
	sink := &recordingSink{}
	s, _ = r.HandleKey(s, keys.Rune('h'), sink)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, General, s.Focused)

	s, _ = r.HandleKey(s, keys.Named(keys.CodeEsc), nil)
	s, _ = r.HandleKey(s, keys.Rune('h'), nil)
	assert.Equal(t, Motivation, s.Focused)
	assert.Equal(t, AppControls, s.Mode(General))
}

func TestSetKeymap(t *testing.T) {
	t.Parallel()
	r := New(DefaultKeymap(""))
	r.SetKeymap(DefaultKeymap("ctrl+x"))
	_, res := r.HandleKey(NewState(ResetOnBlur), keys.Ctrl('x'), nil)
	assert.Equal(t, Quit, res.Outcome)
	assert.Len(t, r.Keymap().FullHelp(), 2)
	assert.NotEmpty(t, r.Keymap().ShortHelp())
}
