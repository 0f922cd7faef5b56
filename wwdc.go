// Package wwdc turns Apple Developer session pages into normalized,
// cached, on-disk documents. It builds a topic index from the official
// topic-listing pages, downloads session pages through a bounded worker
// pool, parses them into structured documents, and keeps a persisted
// metadata cache so repeated runs are incremental and crash-safe.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, fs/).
package wwdc
