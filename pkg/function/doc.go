/*
Package function provides the units of computation that steps apply to traversers.

A Function is pure with respect to the traverser it is given: it may read the
traverser's value, path and shared side-effects, but it never mutates them.
Operands are Arguments, resolved per call against the current traverser, and
every function carries a Coefficient that weights the bulk of the traversers a
step emits on its behalf.

	isAdult := function.Has(function.Constant("age"), function.Gte(18))
	byLabel := function.Label()
	hasID := function.HasKey(function.Constant("id"), function.WithLabels("a"))
*/
package function
