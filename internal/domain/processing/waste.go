package processing

// WasteAccumulator counts produced-but-undeposited waste for one unit and emits it into
// the linked container once a full cycle worth has built up.
type WasteAccumulator struct {
	container WasteContainer
	enabled   bool
	produced  float64
}

// NewWasteAccumulator links an accumulator to its container.
// A disabled accumulator ignores every production call.
func NewWasteAccumulator(container WasteContainer, enabled bool) *WasteAccumulator {
	return &WasteAccumulator{
		container: container,
		enabled:   enabled,
	}
}

func (w *WasteAccumulator) Enabled() bool     { return w.enabled && w.container != nil }
func (w *WasteAccumulator) Produced() float64 { return w.produced }

// Threshold is the per-cycle emission size, equal to the container stack limit
func (w *WasteAccumulator) Threshold() int {
	if w.container == nil {
		return 0
	}
	return w.container.StackLimit()
}

// ContainerFull reports whether the linked container has no free capacity
func (w *WasteAccumulator) ContainerFull() bool {
	return w.container != nil && w.container.Full()
}

// ProduceWastepack adds amount to the running counter. Once the counter reaches the
// threshold and the container holds no pending waste, the counter resets and one waste
// item of threshold size is emitted. Returns true when an emission happened.
func (w *WasteAccumulator) ProduceWastepack(amount int) bool {
	if !w.Enabled() || w.container.Full() {
		return false
	}

	w.produced += float64(amount)
	threshold := w.container.StackLimit()
	if threshold <= 0 || w.produced < float64(threshold) || w.container.HasPending() {
		return false
	}

	w.produced = 0
	w.container.ProduceWaste(threshold)
	return true
}

// PercentFull returns 1 when the container is full, otherwise counter over threshold
func (w *WasteAccumulator) PercentFull() float64 {
	if w.container == nil {
		return 0
	}
	if w.container.Full() {
		return 1
	}
	threshold := w.container.StackLimit()
	if threshold <= 0 {
		return 0
	}
	return w.produced / float64(threshold)
}

// restore sets the counter from persisted state
func (w *WasteAccumulator) restore(produced float64) {
	w.produced = produced
}
