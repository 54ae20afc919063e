package activitylog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"workspace-access/internal/platform/logger"
	"workspace-access/internal/ports/workspace"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp091.Publishing
	err           error
	closed        bool
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	c.exchange, c.key, c.msg = exchange, key, msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func sampleEvent() workspace.ActivityEvent {
	return workspace.ActivityEvent{
		OrganizationID: "org-1",
		ActorID:        "admin-1",
		Action:         "access_granted",
		ResourceType:   "project",
		ResourceID:     "p-1",
		Details:        map[string]any{"user_id": "u-1", "permission": "edit"},
		OccurredAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Append(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: defaultExchange, log: logger.Nop()}

	require.NoError(t, p.Append(context.Background(), sampleEvent()))
	require.Equal(t, "workspace.activity", ch.exchange)
	require.Equal(t, "activity.access_granted", ch.key)
	require.Equal(t, "application/json", ch.msg.ContentType)
	require.Equal(t, amqp091.Persistent, ch.msg.DeliveryMode)

	var body activityMessage
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	require.Equal(t, "org-1", body.OrganizationID)
	require.Equal(t, "p-1", body.ResourceID)
	require.Equal(t, "edit", body.Details["permission"])

	require.NoError(t, p.Close())
	require.True(t, ch.closed)
}

func TestPublisher_AppendError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &Publisher{channel: ch, exchange: defaultExchange, log: logger.Nop()}

	err := p.Append(context.Background(), sampleEvent())
	require.Error(t, err)
	require.Contains(t, err.Error(), "channel closed")
}

func TestLogSink_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf}))

	require.NoError(t, sink.Append(context.Background(), sampleEvent()))

	line := strings.TrimSpace(buf.String())
	require.Contains(t, line, `"action":"access_granted"`)
	require.Contains(t, line, `"component":"activity"`)
	require.Contains(t, line, `"organization_id":"org-1"`)
}

type failingLog struct{}

func (failingLog) Append(context.Context, workspace.ActivityEvent) error {
	return errors.New("down")
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	f := Fanout{a, failingLog{}, b}

	err := f.Append(context.Background(), sampleEvent())
	require.EqualError(t, err, "down")
	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
}

func TestRecorder_ReturnsCopy(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Append(context.Background(), sampleEvent()))

	events := r.Events()
	events[0].Action = "mutated"
	require.Equal(t, "access_granted", r.Events()[0].Action)
}
