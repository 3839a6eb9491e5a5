// Package model holds feed-forward evaluation networks and their
// on-disk weight format.
package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Handle is a loaded model ready for inference. Implementations are
// immutable after load and safe for concurrent Forward calls.
type Handle interface {
	Forward(in []float32) (float64, error)
}

// ErrBadInput reports an input vector of the wrong length.
var ErrBadInput = errors.New("input has wrong length")

// Network is a 3-layer perceptron: input -> hidden (ReLU) -> hidden
// (ReLU) -> scalar output. Weights are row-major per output unit.
type Network struct {
	inputSize  int
	hiddenSize int

	w1, b1 []float32
	w2, b2 []float32
	w3, b3 []float32
}

// NewNetwork allocates a zero-weight network with the given layer
// sizes.
func NewNetwork(inputSize, hiddenSize int) (*Network, error) {
	if inputSize < 1 || hiddenSize < 1 {
		return nil, fmt.Errorf("bad network dimensions %dx%d", inputSize, hiddenSize)
	}
	return &Network{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		w1:         make([]float32, hiddenSize*inputSize),
		b1:         make([]float32, hiddenSize),
		w2:         make([]float32, hiddenSize*hiddenSize),
		b2:         make([]float32, hiddenSize),
		w3:         make([]float32, hiddenSize),
		b3:         make([]float32, 1),
	}, nil
}

// InputSize returns the expected Forward input length.
func (n *Network) InputSize() int { return n.inputSize }

// HiddenSize returns the width of the hidden layers.
func (n *Network) HiddenSize() int { return n.hiddenSize }

// parameters lists the weight slices in serialization order.
func (n *Network) parameters() [][]float32 {
	return [][]float32{n.w1, n.b1, n.w2, n.b2, n.w3, n.b3}
}

// ParameterCount returns the total number of weights and biases.
func (n *Network) ParameterCount() int {
	total := 0
	for _, p := range n.parameters() {
		total += len(p)
	}
	return total
}

// InitRandom fills the weights deterministically from seed, scaled by
// fan-in. Biases stay zero.
func (n *Network) InitRandom(seed int64) {
	r := rand.New(rand.NewSource(seed))
	fill := func(w []float32, fanIn int) {
		scale := float32(1 / math.Sqrt(float64(fanIn)))
		for i := range w {
			w[i] = (r.Float32()*2 - 1) * scale
		}
	}
	fill(n.w1, n.inputSize)
	fill(n.w2, n.hiddenSize)
	fill(n.w3, n.hiddenSize)
}

// Forward runs inference on one encoded position.
func (n *Network) Forward(in []float32) (float64, error) {
	if len(in) != n.inputSize {
		return 0, fmt.Errorf("forward: %w: got %d values, need %d", ErrBadInput, len(in), n.inputSize)
	}

	h1 := make([]float32, n.hiddenSize)
	for i := range h1 {
		sum := n.b1[i]
		row := n.w1[i*n.inputSize : (i+1)*n.inputSize]
		for j, v := range in {
			sum += row[j] * v
		}
		if sum > 0 {
			h1[i] = sum
		}
	}

	h2 := make([]float32, n.hiddenSize)
	for i := range h2 {
		sum := n.b2[i]
		row := n.w2[i*n.hiddenSize : (i+1)*n.hiddenSize]
		for j, v := range h1 {
			sum += row[j] * v
		}
		if sum > 0 {
			h2[i] = sum
		}
	}

	out := n.b3[0]
	for j, v := range h2 {
		out += n.w3[j] * v
	}
	return float64(out), nil
}
