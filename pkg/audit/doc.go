// Package audit records the workflow audit trail.
//
// Every transition attempt, accepted or rejected, becomes one Event carrying
// the tenant, the entity, the observed and requested states, the actor and
// the outcome. WorkflowRecorder plugs into workflow.Engine through
// workflow.WithRecorder.
//
// Storages:
//
//   - MemoryStorage for tests and single-node setups.
//   - PgStorage over the workflow_audit_log table created by pkg/pg migrations.
//   - MongoStorage for deployments that keep the trail outside Postgres.
//
// AsyncWriter batches concurrent writes to any storage that also implements
// BatchWriter. Reader reads the trail back, e.g. the history of one entity.
package audit
