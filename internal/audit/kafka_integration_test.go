//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)

	pub, err := audit.NewKafkaPublisher([]string{rp.Broker}, audit.DefaultTopic)
	require.NoError(t, err)
	defer pub.Close()

	event := audit.Event{
		ID:        uuid.New(),
		Workflow:  audit.WorkflowMono,
		Subject:   "20304050605",
		Verdict:   "CALIFICA PERFECTO",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, pub.Publish(context.Background(), event))

	consumer := rp.Consumer(t, audit.DefaultTopic)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.ID, got.ID)
	require.Equal(t, "CALIFICA PERFECTO", got.Verdict)
	require.Equal(t, "20304050605", string(records[0].Key))
}
