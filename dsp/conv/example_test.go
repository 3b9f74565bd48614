package conv_test

import (
	"fmt"

	"github.com/cwbudde/radarping/dsp/conv"
)

func ExampleDirect() {
	out, err := conv.Direct([]float64{1, 2, 3}, []float64{0, 1, 0.5})
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output:
	// [0 1 2.5 4 1.5]
}
