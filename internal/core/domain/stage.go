package domain

// StageStatus classifies the outcome of one pipeline stage.
type StageStatus int

const (
	// StageSuccess means the primary provider call produced the value.
	StageSuccess StageStatus = iota

	// StageDegraded means the deterministic fallback produced the value
	// after the primary call failed. The value is still usable.
	StageDegraded

	// StageFailed means neither the primary call nor a fallback could
	// produce a value. Only stages without a fallback report this.
	StageFailed
)

// StageResult carries a stage outcome together with its value, making
// the propagate-vs-degrade decision explicit instead of hiding it in
// error handling. Orchestrators switch on Status; Reason records why a
// degraded or failed stage took that path.
type StageResult[T any] struct {
	Status StageStatus
	Value  T
	Reason string
	Err    error
}

// Success wraps a value produced by the primary path.
func Success[T any](v T) StageResult[T] {
	return StageResult[T]{Status: StageSuccess, Value: v}
}

// Degraded wraps a fallback value with the reason the primary path failed.
func Degraded[T any](v T, reason string) StageResult[T] {
	return StageResult[T]{Status: StageDegraded, Value: v, Reason: reason}
}

// Failed wraps a hard stage failure.
func Failed[T any](err error) StageResult[T] {
	return StageResult[T]{Status: StageFailed, Err: err}
}

// Ok reports whether the stage produced a usable value.
func (r StageResult[T]) Ok() bool {
	return r.Status != StageFailed
}
