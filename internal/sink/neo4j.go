package sink

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agentstation/clubmerge/pkg/errors"
)

// Neo4jOptions configures the graph trace sink.
type Neo4jOptions struct {
	URI            string
	Username       string
	Password       string
	Database       string
	MaxConnections int
}

// Executor runs one write statement.
type Executor interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) error
	Close(ctx context.Context) error
}

// mergedIntoCypher links every original record to its merged profile.
const mergedIntoCypher = `UNWIND $rows AS row
MERGE (n:Profile {uid: row.new_uid})
  SET n.clubId = row.new_club_id, n.email = row.email, n.merged = true
MERGE (o:Profile {uid: row.old_uid})
  SET o.clubId = row.old_club_id, o.email = row.email
MERGE (o)-[:MERGED_INTO]->(n)`

// Neo4jTraceSink writes trace rows as (:Profile)-[:MERGED_INTO]->(:Profile) edges.
type Neo4jTraceSink struct {
	exec Executor
}

// NewNeo4jTraceSink connects to the graph database.
func NewNeo4jTraceSink(ctx context.Context, opts Neo4jOptions) (*Neo4jTraceSink, error) {
	exec, err := newNeo4jExecutor(ctx, opts)
	if err != nil {
		return nil, errors.WrapSink("neo4j", "connect", err)
	}
	return NewGraphTraceSink(exec), nil
}

// NewGraphTraceSink creates a trace sink over an executor.
func NewGraphTraceSink(exec Executor) *Neo4jTraceSink {
	return &Neo4jTraceSink{exec: exec}
}

// Write sends the rows linking originals to their merged profile. The row of
// the merged profile itself carries no edge and is skipped.
func (s *Neo4jTraceSink) Write(ctx context.Context, rows []TraceRow) error {
	params := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		if r.OldUID == r.NewUID {
			continue
		}
		params = append(params, map[string]any{
			"old_uid":     r.OldUID,
			"old_club_id": r.OldClubID,
			"new_uid":     r.NewUID,
			"new_club_id": r.NewClubID,
			"email":       r.Email,
		})
	}
	if len(params) == 0 {
		return nil
	}
	if err := s.exec.ExecuteWrite(ctx, mergedIntoCypher, map[string]any{"rows": params}); err != nil {
		return errors.WrapSink("neo4j", "write trace", err)
	}
	return nil
}

// Close closes the driver.
func (s *Neo4jTraceSink) Close(ctx context.Context) error {
	return errors.WrapSink("neo4j", "close", s.exec.Close(ctx))
}

type neo4jExecutor struct {
	driver   neo4j.DriverWithContext
	database string
}

func newNeo4jExecutor(ctx context.Context, opts Neo4jOptions) (*neo4jExecutor, error) {
	if opts.URI == "" {
		return nil, errors.NewValidationError("neo4j.uri", opts.URI, "is required")
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jExecutor{driver: driver, database: opts.Database}, nil
}

func (e *neo4jExecutor) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) error {
	session := e.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: e.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer func() { _ = session.Close(ctx) }()

	res, err := session.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func (e *neo4jExecutor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
