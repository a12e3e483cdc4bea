/*
Package vine is a dual-mode graph traversal engine.

A traversal is a linear pipeline of steps pulling traversers (a value, its bulk
and optionally its path) from the step before. Branch steps such as choose own
child traversals and route every traverser into exactly one of them.

# Execution modes

In standard mode the caller pulls results through the pipeline lazily. In
computer mode the same traversal is cloned onto workers: every step labels the
traversers it emits with the id of the step that must process them next, and a
bulk-synchronous runner routes them between workers until they halt.

# Usage

	e := vine.New(vine.WithGraph(memory.Modern()))

	names, err := e.G().V().HasLabel("person").
		ChooseIf(function.Has(function.Constant("age"), function.Gt(30)),
			dsl.Anon().Values("name"),
			dsl.Anon().Constant("young")).
		ToList()

Pipelines can also be declared in YAML and compiled with Parse or Load; the
functions they name come from a registry (see WithRegistry).

	t, err := e.Load("pipeline.yaml")
	res, err := e.Execute(ctx, t)
*/
package vine
