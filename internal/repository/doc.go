// Package repository implements the data access layer for Ringside.
//
// Each repository struct handles the storage of one domain entity in SurrealDB.
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Get returns nil, nil when a record does not exist
//   - Results are parsed from map[string]interface{} rows into model structs
//
// # Batched Writes
//
// Writes that belong together are queued on a database.TxBuilder by the
// unexported addXxx helpers and committed in one transaction. A roster build
// (MatchRepository.CreateFromPlan) creates the event, the synthesized
// wrestlers, the seeded championships, the match and every edge in one batch.
//
// # Query Patterns
//
//   - Record ids are sent as models.RecordID values, never interpolated
//   - Participation is stored as graph edges (RELATE wrestler->competes_in->match)
//   - time::now() for automatic timestamps
//
// # Example Usage
//
//	repo := NewMatchRepository(db)
//	match, err := repo.Get(ctx, "match:3f2a...")
//	if err != nil {
//	    return err
//	}
//	if match == nil {
//	    // Handle not found
//	}
package repository
