package vine_test

import (
	"context"
	"fmt"

	"github.com/aretw0/vine"
	"github.com/aretw0/vine/pkg/adapters/memory"
	"github.com/aretw0/vine/pkg/dsl"
	"github.com/aretw0/vine/pkg/function"
)

func Example() {
	e := vine.New(vine.WithGraph(memory.Modern()))

	names, err := e.G().V(1).Out().Values("name").ToList()
	if err != nil {
		panic(err)
	}
	fmt.Println(names)
	// Output: [vadas josh lop]
}

func Example_choose() {
	e := vine.New(vine.WithGraph(memory.Modern()))

	old := function.Has(function.Constant("age"), function.Gt(30))
	out, err := e.G().V().HasLabel("person").
		ChooseIf(old, dsl.Anon().Values("name"), dsl.Anon().Constant("young")).
		ToList()
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output: [young young josh peter]
}

func ExampleEngine_Parse() {
	e := vine.New(vine.WithGraph(memory.Modern()))

	t, err := e.Parse([]byte(`
steps:
  - step: V
  - step: choose
    by: label
    branches:
      person: [{step: values, keys: [age]}]
      software: [{step: values, keys: [lang]}]
`), ".yaml")
	if err != nil {
		panic(err)
	}
	res, err := e.Execute(context.Background(), t)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Values)
	// Output: [29 27 java 32 java 35]
}
