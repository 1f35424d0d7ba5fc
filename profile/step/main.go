// Profiling:
// go build ./profile/step
// ./step -bodies 200 -steps 2000
// go tool pprof -http=":8000" -nodefraction=0.001 ./step cpu.pprof

package main

import (
	"flag"
	"log"
	"time"

	"github.com/pkg/profile"

	"github.com/orbitable/orbitable-web/scenario"
	"github.com/orbitable/orbitable-web/sim"
)

func main() {
	bodies := flag.Int("bodies", 200, "Planets in the random cluster")
	steps := flag.Int("steps", 2000, "Steps per round")
	rounds := flag.Int("rounds", 5, "Rounds, each on a fresh engine")
	dt := flag.Float64("dt", 3600, "Simulated seconds per step")
	mem := flag.Bool("mem", false, "Profile allocations instead of CPU")
	flag.Parse()

	mode := profile.CPUProfile
	if *mem {
		mode = profile.MemProfileAllocs
	}

	start := time.Now()
	p := profile.Start(mode, profile.ProfilePath("."), profile.NoShutdownHook)
	run(*rounds, *steps, *bodies, *dt)
	p.Stop()

	log.Printf("%d rounds of %d steps with %d bodies in %v", *rounds, *steps, *bodies+1, time.Since(start))
}

func run(rounds, steps, bodies int, dt float64) {
	for r := range rounds {
		e := sim.NewEngineWithSeed(uint64(r + 1))
		if err := scenario.Random(uint64(r+1), bodies).Apply(e); err != nil {
			log.Fatal(err)
		}
		for range steps {
			e.Step(dt)
		}
	}
}
