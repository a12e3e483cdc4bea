/*
Package dsl provides a fluent Go DSL for composing vine traversals.

It builds the same step pipelines the compiler produces from YAML, using a
type-safe builder pattern instead of external files. This is useful for
embedding traversals in Go programs, unit testing and IDE autocompletion.

Example usage:

	package main

	import (
		"fmt"

		"github.com/aretw0/vine/pkg/adapters/memory"
		"github.com/aretw0/vine/pkg/dsl"
		"github.com/aretw0/vine/pkg/function"
	)

	func main() {
		g := dsl.New(memory.Modern())

		names, err := g.V().HasLabel("person").
			ChooseIf(function.Has(function.Constant("age"), function.Gt(30)),
				dsl.Anon().Values("name"),
				dsl.Anon().Constant("young")).
			ToList()
		if err != nil {
			panic(err)
		}
		fmt.Println(names)
	}

Every builder method returns a new handle on the same underlying traversal.
An error raised while adding a step travels down the chain: the handle that
caused it reports it from Err and from every pull, while earlier handles keep
working.
*/
package dsl
