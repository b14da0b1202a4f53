// Command vortexrt-sim drives a small demo kernel image exercising
// sleep/idle, priority preemption, mutex contention, channel
// backpressure, an event-flag timeout, and recursive-mutex locking,
// and prints the trace each produces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ruixuezhao890/vortexrt/bitmap"
	"github.com/ruixuezhao890/vortexrt/kernel"
	"github.com/ruixuezhao890/vortexrt/ksync"
	"github.com/ruixuezhao890/vortexrt/port"
)

// priorities used by the demo image. 0 is highest under ascending
// order, so this assigns A the highest precedence and idle the lowest
// (ProcessCount).
const (
	prioA = 0
	prioB = 1
	prioC = 2

	processCount = 3
	ticks        = 80
	tickInterval = 2 * time.Millisecond
)

func main() {
	scheme := flag.String("scheme", "direct", "context switch scheme: direct|deferred")
	n := flag.Int("ticks", ticks, "number of simulated ticks to drive")
	flag.Parse()

	s := port.SchemeDirect
	if *scheme == "deferred" {
		s = port.SchemeDeferred
	}

	cfg := kernel.Config{
		ProcessCount:         processCount,
		Order:                bitmap.Ascending,
		Scheme:               s,
		TicksEnable:          true,
		SuspendedStartEnable: false,
		RestartEnable:        true,
		DebugEnable:          true,
	}

	p := port.NewGoroutinePort(cfg.Scheme)
	k, err := kernel.New(cfg, p)
	if err != nil {
		log.Fatalf("vortexrt-sim: %v", err)
	}

	var (
		traceMu sync.Mutex
		trace   []string
	)
	emit := func(format string, args ...any) {
		traceMu.Lock()
		trace = append(trace, fmt.Sprintf(format, args...))
		traceMu.Unlock()
	}

	mtx := ksync.NewMutex(k)
	ch := ksync.NewChannel(k, 4)
	ev := ksync.NewEvent(k)

	// A: acquire the mutex first so B and C contend for it, then
	// release it and demonstrate recursive locking on a second,
	// private lock.
	if _, err := k.Register(prioA, "A", false, func() {
		mtx.Lock(0)
		emit("A: acquired mutex")
		k.Sleep(3)
		emit("A: releasing mutex")
		mtx.Unlock()

		rm := ksync.NewRecursiveMutex(k)
		rm.Lock(0)
		rm.Lock(0)
		rm.Lock(0)
		emit("A: recursive depth=%d", rm.Depth())
		rm.Unlock()
		emit("A: recursive depth after one unlock=%d", rm.Depth())
		rm.Unlock()
		rm.Unlock()
		emit("A: recursive mutex released, depth=%d", rm.Depth())

		for i := byte(1); i <= 6; i++ {
			ch.Send(i, 0)
			emit("A: sent %d", i)
		}

		timedOut := ev.Wait(5)
		emit("A: event wait returned timedOut=%v", timedOut)

		for {
			k.Sleep(1000)
		}
	}); err != nil {
		log.Fatalf("vortexrt-sim: register A: %v", err)
	}

	// B: contends for the mutex at lower precedence than A but
	// higher than C.
	if _, err := k.Register(prioB, "B", false, func() {
		mtx.Lock(0)
		emit("B: acquired mutex")
		mtx.Unlock()
		emit("B: released mutex")

		for {
			b, ok := ch.Receive(0)
			if ok {
				emit("B: received %d", b)
			}
		}
	}); err != nil {
		log.Fatalf("vortexrt-sim: register B: %v", err)
	}

	// C: the lowest-precedence contender; also signals the event flag
	// A waits on, but only after A's 5-tick wait has already timed out
	// (C sleeps 10 ticks first), so A reports timedOut=true.
	if _, err := k.Register(prioC, "C", false, func() {
		mtx.Lock(0)
		emit("C: acquired mutex")
		mtx.Unlock()
		emit("C: released mutex")

		k.Sleep(10)
		ev.Signal()
		emit("C: signaled event")

		for {
			k.Sleep(1000)
		}
	}); err != nil {
		log.Fatalf("vortexrt-sim: register C: %v", err)
	}

	go func() {
		if err := k.Run(); err != nil {
			log.Fatalf("vortexrt-sim: run: %v", err)
		}
	}()

	for i := 0; i < *n; i++ {
		time.Sleep(tickInterval)
		k.DeliverTick()
	}

	traceMu.Lock()
	defer traceMu.Unlock()
	for _, line := range trace {
		fmt.Fprintln(os.Stdout, line)
	}
}
