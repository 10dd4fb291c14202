package compute

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/mdiff/pkg/linediff"
)

func newScheduler() *Scheduler {
	return NewScheduler(time.Millisecond, 0, nil)
}

func trigger(t *testing.T, s *Scheduler, original, modified []string) TriggerMsg {
	t.Helper()
	cmd := s.Schedule(original, modified)
	require.NotNil(t, cmd)
	msg, ok := cmd().(TriggerMsg)
	require.True(t, ok)
	return msg
}

func TestScheduler_LaterScheduleSupersedesEarlier(t *testing.T) {
	s := newScheduler()
	first := trigger(t, s, []string{"a"}, []string{"b"})
	second := trigger(t, s, []string{"a"}, []string{"a"})

	assert.Nil(t, s.Fire(first))
	cmd := s.Fire(second)
	require.NotNil(t, cmd)
	assert.True(t, s.Running())

	msg, ok := cmd().(ResultMsg)
	require.True(t, ok)
	assert.Equal(t, s.ID(), msg.Session)
	assert.Equal(t, uint64(2), msg.Gen)

	current, next := s.Accept(msg)
	assert.True(t, current)
	assert.Nil(t, next)
	assert.False(t, s.Running())
	assert.True(t, msg.Result.Identical())
}

func TestScheduler_SingleFlightRunsPendingAfterward(t *testing.T) {
	s := newScheduler()
	running := s.Now([]string{"a"}, []string{"b"})
	require.NotNil(t, running)

	trig := trigger(t, s, []string{"x"}, []string{"y"})
	assert.Nil(t, s.Fire(trig))
	assert.True(t, s.Pending())

	first, ok := running().(ResultMsg)
	require.True(t, ok)
	current, next := s.Accept(first)
	assert.False(t, current)
	require.NotNil(t, next)
	assert.True(t, s.Running())
	assert.False(t, s.Pending())

	second, ok := next().(ResultMsg)
	require.True(t, ok)
	current, next = s.Accept(second)
	assert.True(t, current)
	assert.Nil(t, next)
	assert.Equal(t, linediff.Stats{Added: 1, Removed: 1, Total: 2}, second.Result.Stats)
}

func TestScheduler_PendingIsLatestWins(t *testing.T) {
	s := newScheduler()
	running := s.Now([]string{"a"}, []string{"a"})

	assert.Nil(t, s.Fire(trigger(t, s, []string{"1"}, []string{"2"})))
	assert.Nil(t, s.Now([]string{"3"}, []string{"3"}))

	first, ok := running().(ResultMsg)
	require.True(t, ok)
	_, next := s.Accept(first)
	require.NotNil(t, next)

	last, ok := next().(ResultMsg)
	require.True(t, ok)
	assert.Equal(t, s.Generation(), last.Gen)
	assert.True(t, last.Result.Identical())
	assert.Equal(t, 1, last.Result.Stats.Retained)
}

func TestScheduler_IgnoresOtherSessions(t *testing.T) {
	s := newScheduler()
	other := newScheduler()
	require.NotEqual(t, s.ID(), other.ID())

	trig := trigger(t, other, nil, nil)
	assert.Nil(t, s.Fire(trig))

	running := s.Now(nil, nil)
	require.NotNil(t, running)
	current, next := s.Accept(ResultMsg{Session: other.ID(), Gen: s.Generation()})
	assert.False(t, current)
	assert.Nil(t, next)
	assert.True(t, s.Running())
}

func TestScheduler_ZeroDelayComputesImmediately(t *testing.T) {
	s := NewScheduler(0, 0, nil)
	cmd := s.Schedule([]string{"a"}, nil)
	require.NotNil(t, cmd)

	msg, ok := cmd().(ResultMsg)
	require.True(t, ok)
	current, _ := s.Accept(msg)
	assert.True(t, current)
	assert.Equal(t, 1, msg.Result.Stats.Removed)
}

func TestScheduler_Warning(t *testing.T) {
	s := NewScheduler(0, 3, nil)
	assert.Empty(t, s.Warning([]string{"a"}, []string{"b", "c"}))

	original := []string{"a", "b"}
	modified := []string{"c", "d"}
	assert.Contains(t, s.Warning(original, modified), "2 x 2")

	msg, ok := s.Now(original, modified)().(ResultMsg)
	require.True(t, ok)
	assert.NotEmpty(t, msg.Warning)
}

func TestScheduler_NewerScheduleDropsParkedRequest(t *testing.T) {
	s := newScheduler()
	running := s.Now([]string{"a"}, []string{"b"})
	require.NotNil(t, running)

	assert.Nil(t, s.Fire(trigger(t, s, []string{"1"}, []string{"2"})))
	require.True(t, s.Pending())

	latest := trigger(t, s, []string{"3"}, []string{"3"})
	assert.False(t, s.Pending())

	first, ok := running().(ResultMsg)
	require.True(t, ok)
	current, next := s.Accept(first)
	assert.False(t, current)
	assert.Nil(t, next)
	assert.False(t, s.Running())

	cmd := s.Fire(latest)
	require.NotNil(t, cmd)
	last, ok := cmd().(ResultMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(3), last.Gen)
	current, _ = s.Accept(last)
	assert.True(t, current)
}
