// Package snapshot defines the wire format exchanged with the host page and
// the structure API, and converts between it and the in-memory store.
//
// # Records
//
// A snapshot is a plain node-link document:
//
//	{
//	  "nodes": [{"id": "entity_1", "type": "entity", "name": "Holdco", "x": 0, "y": 100, "level": 0,
//	             "entity_type": "LLC_AS_CORP", "jurisdiction": "WY", "total_shares": 1000}],
//	  "edges": [{"id": "party_7_entity_1", "source": "party_7", "target": "entity_1", "percentage": 60}]
//	}
//
// Save requests add the structure identifier:
//
//	{"structure_id": "42", "nodes": [...], "edges": [...]}
//
// Records carry values only. Rendering handles never reach the wire.
//
// # Loading
//
// [Load] inserts nodes before edges. Records the store rejects (duplicate
// ids, edges with a missing endpoint) are logged at warn level and counted
// in [LoadResult]; the rest of the snapshot still loads.
package snapshot
