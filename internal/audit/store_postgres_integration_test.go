//go:build integration

package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/agusdc111/arreglocuil/internal/audit"
	"github.com/agusdc111/arreglocuil/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *audit.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	_, err := s.pg.Pool.Exec(context.Background(), audit.Schema)
	s.Require().NoError(err)
	s.store = audit.NewPostgresStore(s.pg.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.Pool.Exec(context.Background(), "TRUNCATE verification_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) event(subject, verdict string, at time.Time) audit.Event {
	return audit.Event{
		ID:        uuid.New(),
		Workflow:  audit.WorkflowGeneral,
		Subject:   subject,
		Verdict:   verdict,
		ChannelID: "chan-1",
		RequestID: uuid.NewString(),
		Timestamp: at,
	}
}

func (s *PostgresStoreSuite) TestAppendAndListBySubject() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	s.Require().NoError(s.store.Append(ctx, s.event("20304050605", "APORTES OK", now)))
	s.Require().NoError(s.store.Append(ctx, s.event("20304050605", "DESEMPLEADO", now.Add(time.Minute))))
	s.Require().NoError(s.store.Append(ctx, s.event("27112223334", "CODEM", now)))

	events, err := s.store.ListBySubject(ctx, "20304050605")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("APORTES OK", events[0].Verdict)
	s.Equal("DESEMPLEADO", events[1].Verdict)
}

func (s *PostgresStoreSuite) TestAppendIsIdempotent() {
	ctx := context.Background()
	e := s.event("20304050605", "APORTES OK", time.Now().UTC())

	s.Require().NoError(s.store.Append(ctx, e))
	s.Require().NoError(s.store.Append(ctx, e))

	events, err := s.store.ListBySubject(ctx, "20304050605")
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *PostgresStoreSuite) TestListRecent() {
	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Append(ctx, s.event("20304050605", "APORTES OK", now.Add(time.Duration(i)*time.Second))))
	}

	events, err := s.store.ListRecent(ctx, 3)
	s.Require().NoError(err)
	s.Len(events, 3)
}
