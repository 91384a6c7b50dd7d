package nnue

// Network holds quantized weights. It is immutable once built and may be
// shared by any number of evaluators.
type Network struct {
	L1, L2 int

	FeatureWeights []int16 // NumFeatures rows of L1
	FeatureBias    []int16 // L1
	HiddenWeights  []int8  // L2 rows of 2*L1
	HiddenBias     []int32 // L2
	OutputWeights  []int8  // L2
	OutputBias     int32
}

func newNetwork(l1, l2 int) *Network {
	return &Network{
		L1:             l1,
		L2:             l2,
		FeatureWeights: make([]int16, NumFeatures*l1),
		FeatureBias:    make([]int16, l1),
		HiddenWeights:  make([]int8, l2*2*l1),
		HiddenBias:     make([]int32, l2),
		OutputWeights:  make([]int8, l2),
	}
}

func (n *Network) featureRow(idx int) []int16 {
	return n.FeatureWeights[idx*n.L1 : (idx+1)*n.L1]
}

// Forward runs the dense layers on the two perspective accumulators, side to
// move first, and returns centipawns.
func (n *Network) Forward(us, them []int16) int {
	return n.forward(us, them, make([]int32, 2*n.L1))
}

// forward is Forward with a caller-owned scratch buffer of length 2*L1.
func (n *Network) forward(us, them []int16, in []int32) int {
	for i := 0; i < n.L1; i++ {
		in[i] = clampedReLU(int32(us[i]))
		in[n.L1+i] = clampedReLU(int32(them[i]))
	}

	out := n.OutputBias
	for o := 0; o < n.L2; o++ {
		row := n.HiddenWeights[o*2*n.L1 : (o+1)*2*n.L1]
		sum := n.HiddenBias[o]
		for i, w := range row {
			sum += in[i] * int32(w)
		}
		out += clampedReLU(sum>>hiddenShift) * int32(n.OutputWeights[o])
	}
	return int(int64(out) * outputScale >> outputShift)
}

// NewRandom builds a deterministic network with small pseudo-random weights.
// It stands in for trained weights in tests and generated files.
func NewRandom(seed uint64, l1, l2 int) *Network {
	n := newNetwork(l1, l2)
	state := seed
	next := func() int32 {
		state = state*6364136223846793005 + 1442695040888963407
		return int32((state>>48)&0xFF) - 128
	}

	for i := range n.FeatureWeights {
		n.FeatureWeights[i] = int16(next() >> 4)
	}
	for i := range n.FeatureBias {
		n.FeatureBias[i] = int16(next()>>2) + 32
	}
	for i := range n.HiddenWeights {
		n.HiddenWeights[i] = int8(next() >> 3)
	}
	for i := range n.HiddenBias {
		n.HiddenBias[i] = next() * 8
	}
	for i := range n.OutputWeights {
		n.OutputWeights[i] = int8(next() >> 1)
	}
	n.OutputBias = next()
	return n
}
