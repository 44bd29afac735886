package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args(Notification{
		Title:   "title",
		Body:    "body",
		Urgency: UrgencyCritical,
		Timeout: 2 * time.Second,
		Icon:    "icon",
	})
	assert.Equal(t, []string{"-u", "critical", "-t", "2000", "-i", "icon", "-a", "getitdone", "title", "body"}, args)

	args = Args(Notification{Title: "only"})
	assert.Equal(t, []string{"-u", "normal", "-a", "getitdone", "only"}, args)
}

func TestDueReminder(t *testing.T) {
	n := DueReminder(3, "pay rent", -time.Minute)
	assert.Equal(t, "[3] pay rent", n.Title)
	assert.Equal(t, "Overdue!", n.Body)
	assert.Equal(t, UrgencyCritical, n.Urgency)

	n = DueReminder(3, "pay rent", 30*time.Minute)
	assert.Equal(t, "Due in less than an hour", n.Body)
	assert.Equal(t, UrgencyNormal, n.Urgency)

	n = DueReminder(3, "pay rent", 5*time.Hour+10*time.Minute)
	assert.Equal(t, "Due in 5h0m0s", n.Body)
}

func TestSend(t *testing.T) {
	var calls [][]string
	n := NewNotifier().WithRunner(func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	})

	require.NoError(t, n.SendDueReminder(1, "x", time.Hour*2))
	require.Len(t, calls, 1)
	assert.Equal(t, "notify-send", calls[0][0])

	n.SetEnabled(false)
	require.NoError(t, n.SendDueReminder(1, "x", time.Hour))
	assert.Len(t, calls, 1, "disabled notifier runs nothing")
}

func TestSendFailure(t *testing.T) {
	n := NewNotifier().WithRunner(func(string, ...string) error { return errors.New("no display") })
	assert.Error(t, n.Send(Notification{Title: "x"}))
}
