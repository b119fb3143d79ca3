package tracking

// Construct invokes a constructor of the wrapped library and wraps its result without a tracked origin:
// a node of the tracker's unknown origin type with no inputs is registered.
//
// A panic in construct propagates unchanged and registers nothing. Without a tracker the constructor is
// called through without tracking.
func Construct[R any](tracker *Tracker, construct func() R) Tracked[R] {
	if tracker == nil {
		return Tracked[R]{value: construct()}
	}

	observer := tracker.startCall(callKindConstruct, tracker.unknownOriginType)
	defer observer.finishIfAborted()

	result := construct()
	observer.completed()

	return track(tracker, observer, result, tracker.unknownOriginType, nil, nil)
}

// ConstructErr is Construct for constructors that can fail.
//
// An error returned by construct is passed through unchanged, together with the raw result, and registers nothing.
func ConstructErr[R any](tracker *Tracker, construct func() (R, error)) (Tracked[R], error) {
	if tracker == nil {
		result, err := construct()
		return Tracked[R]{value: result}, err
	}

	observer := tracker.startCall(callKindConstruct, tracker.unknownOriginType)
	defer observer.finishIfAborted()

	result, err := construct()
	if err != nil {
		observer.failed(err)
		return Tracked[R]{value: result}, err
	}

	observer.completed()

	return track(tracker, observer, result, tracker.unknownOriginType, nil, nil), nil
}

// Produce invokes a static factory function of the wrapped library and tracks its result as produced by
// the named factory from the tracked arguments.
//
// Input ids are extracted from args in order; metadata parameters hold the raw arguments.
// A panic in call propagates unchanged and registers nothing.
func Produce[R any](tracker *Tracker, factory string, call func() R, args ...Arg) Tracked[R] {
	if tracker == nil {
		return Tracked[R]{value: call()}
	}

	observer := tracker.startCall(callKindFactory, factory)
	defer observer.finishIfAborted()

	result := call()
	observer.completed()

	return track(tracker, observer, result, factory, nil, args)
}

// ProduceErr is Produce for factory functions that can fail.
//
// An error returned by call is passed through unchanged, together with the raw result, and registers nothing.
func ProduceErr[R any](tracker *Tracker, factory string, call func() (R, error), args ...Arg) (Tracked[R], error) {
	if tracker == nil {
		result, err := call()
		return Tracked[R]{value: result}, err
	}

	observer := tracker.startCall(callKindFactory, factory)
	defer observer.finishIfAborted()

	result, err := call()
	if err != nil {
		observer.failed(err)
		return Tracked[R]{value: result}, err
	}

	observer.completed()

	return track(tracker, observer, result, factory, nil, args), nil
}
