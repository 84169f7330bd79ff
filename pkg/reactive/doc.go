// Package reactive provides the reactive capability consumed by the cv engine.
//
// Dependencies are tracked automatically at runtime: reading a Signal or Memo
// while an Effect (or Memo computation) is running subscribes that listener
// to the value, and writing the Signal re-runs it.
//
// # Core Types
//
// Signal[T] is a mutable reactive cell:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers)
//
// Memo[T] is a cached derived computation:
//
//	doubled := reactive.NewMemo(func() int { return count.Get() * 2 })
//
// Effect re-runs a callback whenever a value it read changes. The returned
// handle stops the effect; an effect may stop itself from inside its body:
//
//	e := reactive.CreateEffect(func() reactive.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//	defer e.Stop()
//
// # Type Erasure
//
// Signal and Memo both implement Readable, the type-erased read used by
// code that needs to recognize "any reactive value" without knowing T.
//
// # Scheduling
//
// Effects run synchronously on the goroutine that wrote the signal. Batch
// defers notification until the outermost batch completes. The tracking
// context is per goroutine.
package reactive
