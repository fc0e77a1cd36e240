package nodelink_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/circuitview/pkg/circuit"
	"github.com/matzehuels/circuitview/pkg/render/nodelink"
)

func ExampleToDOT() {
	c, _ := circuit.New(2, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
	})

	dot := nodelink.ToDOT(c, nodelink.Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "g0" -> "g1" [label="q[0]"];
}

func ExampleRenderSVG() {
	c, _ := circuit.New(2, []circuit.Gate{
		{Name: "h", Qubits: []int{0}},
		{Name: "cx", Qubits: []int{0, 1}},
	})

	svg, err := nodelink.RenderSVG(context.Background(), nodelink.ToDOT(c, nodelink.Options{}))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("Generated SVG (%d bytes)\n", len(svg))
	// Output varies based on Graphviz version
}
