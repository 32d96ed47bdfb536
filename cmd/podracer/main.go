// Command podracer drives one seat of a two-pod racing match over the
// host's stdin/stdout wire protocol: read the track header and per-turn
// pod states, run the evolutionary search each turn, emit the chosen
// moves.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/pthm-cable/podracer/config"
	"github.com/pthm-cable/podracer/driver"
	"github.com/pthm-cable/podracer/legacy"
	"github.com/pthm-cable/podracer/telemetry"
)

var (
	configPath = flag.String("config", "", "Tuning config YAML file (empty = use embedded defaults)")
	logFile    = flag.String("logfile", "", "Write diagnostic text logs to file instead of stderr")
	trace      = flag.Bool("trace", false, "Enable per-turn solver trace output (overrides config)")
	traceFile  = flag.String("tracefile", "", "Solver trace CSV path (empty = use config's trace_file_path)")
	replay     = flag.Bool("replay", false, "Record a JSON-lines match replay for cmd/replay")
	replayFile = flag.String("replayfile", "match.jsonl", "Replay trace output path")
	seed       = flag.Uint64("seed", 0, "RNG seed for the search (0 = derive from the process id)")
	fallback   = flag.Bool("fallback", false, "Steer with the legacy rule if the opening turn's search cannot run")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("podracer: loading config: %v", err)
	}

	logDest := os.Stderr
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatalf("podracer: opening log file: %v", err)
		}
		defer f.Close()
		logDest = f
	}
	driver.SetLogWriter(logDest)

	runSeed := uint32(*seed)
	if runSeed == 0 {
		runSeed = uint32(rand.New(rand.NewSource(int64(os.Getpid()))).Uint32())
	}

	d, err := driver.New(cfg, os.Stdin, os.Stdout, runSeed)
	if err != nil {
		log.Fatalf("podracer: reading match header: %v", err)
	}
	if *fallback {
		d.Fallback = &legacy.State{}
	}

	traceEnabled := cfg.Logging.TraceEnabled || *trace
	if traceEnabled {
		d.Trace = telemetry.NewCollector()
		d.Log = telemetry.NewLogger(logDest)

		tracePath := cfg.Logging.TraceFilePath
		if *traceFile != "" {
			tracePath = *traceFile
		}
		defer func() {
			if err := d.Trace.WriteCSV(tracePath); err != nil {
				fmt.Fprintf(os.Stderr, "podracer: writing solver trace: %v\n", err)
			}
		}()
	}

	if *replay {
		rec, err := telemetry.NewReplayRecorder(*replayFile)
		if err != nil {
			log.Fatalf("podracer: opening replay file: %v", err)
		}
		defer rec.Close()
		d.Replay = rec
		if err := d.WriteReplayHeader(); err != nil {
			log.Fatalf("podracer: writing replay header: %v", err)
		}
	}

	if err := d.Run(); err != nil {
		log.Fatalf("podracer: %v", err)
	}
}
