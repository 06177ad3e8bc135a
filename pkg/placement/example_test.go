package placement_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/scenegen/pkg/placement"
)

func ExampleGenerate() {
	set, err := placement.Generate(context.Background(), placement.NewSampler(42), placement.Options{})
	if err != nil {
		panic(err)
	}
	fmt.Println(set.Len())
	fmt.Println(placement.Verify(set) == nil)
	// Output:
	// 10
	// true
}

func ExampleRatio() {
	placed, _ := placement.NewItem(placement.Sphere, placement.Vec3{X: 0.2, Y: 0.2, Z: 0.2}, 0, 0, 1)
	ext := placement.Vec3{X: 0.2, Y: 0.2, Z: 0.2}
	opts := placement.Options{}.WithDefaults()

	fmt.Printf("%.3f\n", placement.Ratio(placement.Box, ext, 0, 0.5, placed, opts))
	fmt.Printf("%.3f\n", placement.Ratio(placement.Sphere, ext, 0, 0.5, placed, opts))
	// Output:
	// 1.350
	// 0.225
}
