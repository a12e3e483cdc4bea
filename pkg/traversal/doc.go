/*
Package traversal implements the execution core of vine: the Step contract,
the Traversal container that chains steps into a lazily pulled pipeline, and the
base types every concrete step builds on.

# Pull protocol

Steps are iterators. A caller asks the last step for its next traverser; that
step asks its predecessor, and so on back to the start step where traversers
were injected with AddStarts. Exhaustion is reported with domain.ErrNoSuchElement.
Errors raised by user functions travel up the same path unmodified.

# Lifecycle

A Traversal is either Building or Running. Structure may only change while
Building; the first pull locks it (recursively, including child traversals
held by branching steps), assigns stable step ids and makes it Running.

# Modes

Every computer-aware step carries two algorithms. In standard mode it pulls
through its children locally; in computer mode it relabels the traverser with
the id of the step that must process it next and hands it back to the runner.
Child traversals inherit the mode of their root.
*/
package traversal
