package graph

// Options is the configuration handed to the network drawing library.
type Options struct {
	Nodes   NodeOptions    `json:"nodes"`
	Physics PhysicsOptions `json:"physics"`
}

type NodeOptions struct {
	Shape string   `json:"shape"`
	Font  FontSpec `json:"font"`
	Size  int      `json:"size"`
}

type FontSpec struct {
	Color string `json:"color"`
}

type PhysicsOptions struct {
	Enabled       bool          `json:"enabled"`
	Stabilization Stabilization `json:"stabilization"`
}

type Stabilization struct {
	Iterations int `json:"iterations"`
}

// NetworkOptions returns the fixed options every network is drawn with.
func NetworkOptions() Options {
	return Options{
		Nodes: NodeOptions{
			Shape: "dot",
			Font:  FontSpec{Color: "white"},
			Size:  16,
		},
		Physics: PhysicsOptions{
			Enabled:       true,
			Stabilization: Stabilization{Iterations: 150},
		},
	}
}
