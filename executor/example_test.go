package executor_test

import (
	"fmt"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/fake"
	"github.com/momentics/hioload-rt/futures"
)

func ExampleExecutor_Run() {
	e, err := executor.New(fake.NewFakeReactor(), executor.WithOnComplete(func(id uint64, out any) {
		fmt.Printf("task %d -> %v\n", id, out)
	}))
	if err != nil {
		panic(err)
	}

	parent := futures.Then(futures.Yield(), func(any) api.Future {
		return futures.Spawn(e, futures.Ready("child"))
	})
	if err := e.Run(futures.Ready("hello"), parent); err != nil {
		panic(err)
	}

	//output:
	//task 1 -> hello
	//task 2 -> <nil>
	//task 3 -> child
}
