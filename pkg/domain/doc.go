/*
Package domain contains the core entities of the vine traversal engine.

It defines the values that flow through a pipeline and the shared state they
reference. This package is kept pure and free of I/O, so that both the local
(standard) executor and the bulk-synchronous (computer) runner can share it.

# Key Entities

  - Traverser: the unit of flow. Wraps a value, a bulk, an optional Path, a
    SideEffects handle and, in computer mode, a step locator.
  - Path: the labeled history of values a traverser has visited.
  - Requirements: what a traverser must carry for a pipeline to work.
  - SideEffects: the named accumulators shared by a traversal run.
  - Vertex / Edge: the graph elements exposed by the storage port.
*/
package domain
