// Package graph turns entity records into the schema graph drawn by
// schemagraph: one [Node] per entity and one directed [Edge] per relation.
//
// # Ingestion
//
// [Ingest] validates records, assigns palette colors and derives edge ids:
//
//	g, report := graph.Ingest(ds.Records, graph.DefaultPalette)
//	graph.GroupParallel(g.Edges)
//
// Ingestion never fails. Malformed records, duplicate ids and relations to
// entities that were not ingested are dropped and described in the returned
// [IngestReport].
//
// # Edge IDs
//
// Edge ids have the form e-<seq>-<source>-to-<target>[-<label>], where seq
// counts processed relations across the whole dataset and label is the
// relation's property name with everything outside [A-Za-z0-9] removed:
//
//	e-0-accounts-to-users-owner
//
// # Parallel Edges
//
// Several relations may connect the same ordered pair of entities.
// [GroupParallel] records each edge's rank and group size in [EdgeData] so a
// router can fan the paths apart. A→B and B→A are different groups.
//
// # Serialization
//
// [Graph] is the JSON wire format for positioned graphs:
//
//	{
//	  "nodes": [{"id": "A", "label": "Accounts", "position": {"x": 0, "y": 0}, ...}],
//	  "edges": [{"id": "e-0-A-to-B-owner", "source": "A", "target": "B", ...}]
//	}
//
// Use [WriteGraph], [WriteGraphFile] and [ReadGraphFile] for I/O.
package graph
