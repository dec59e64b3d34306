package cache_test

import (
	"fmt"

	"github.com/IvanBrykalov/costcache/cache"
)

func Example() {
	c, err := cache.New[string, float64](cache.Options[string, float64]{MaxCost: 100})
	if err != nil {
		panic(err)
	}

	v := 10.0
	h, _ := c.Put("foo", &v)
	*h = 11
	got, _ := c.Get("foo")
	fmt.Println(*got, c.TotalCost())

	c.MakeWithCost("foo", 2) // replaces, cost 1 -> 2
	fmt.Println(c.TotalCost())

	_, ok := c.PutWithCost("huge", new(float64), 1000)
	fmt.Println(ok, c.Len())
	// Output:
	// 11 1
	// 2
	// false 1
}

func ExampleCache_SetMaxCost() {
	c, _ := cache.New[int, int](cache.Options[int, int]{
		MaxCost: 4,
		OnEvict: func(k int, _ *int, r cache.EvictReason) {
			fmt.Println("evicted", k, r)
		},
	})
	for i := 0; i < 4; i++ {
		c.Make(i)
	}
	_ = c.SetMaxCost(2)
	fmt.Println(c.Keys(), c.TotalCost())
	// Output:
	// evicted 0 resize
	// evicted 1 resize
	// [2 3] 2
}
