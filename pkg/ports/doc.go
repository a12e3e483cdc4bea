/*
Package ports defines the driven ports (interfaces) of the vine engine.

These interfaces decouple the traversal core from the systems around it, so the
same pipeline runs over any storage backend and merges its side-effects into any
distributed memory.

# Key Interfaces

  - Graph: the storage boundary. Resolves vertices and adjacency for steps.
  - MutableGraph: a Graph that can be seeded (used by loaders and contract tests).
  - Memory: the global side-effect memory a computer-mode run merges into.
*/
package ports
