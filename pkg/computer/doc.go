/*
Package computer runs traversals in computer mode: a bulk synchronous message
loop that spreads traversers over a pool of workers.

Each worker owns a clone of the traversal. A traverser is a message addressed to
a step by its locator; in every superstep the runner delivers each message to
that step on one worker, drains the step and collects its outputs as the next
superstep's messages. Traversers addressed to the halt locator are results.

Barrier steps (count, group count, range, dedup) need their whole input, so their
messages are held until nothing else is in flight and then run on the master
clone. When several barriers are waiting, the one earliest in the pipeline goes
first.
*/
package computer
