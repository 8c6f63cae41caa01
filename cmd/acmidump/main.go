// Command acmidump decodes an ACMI/TacView recording and prints a
// summary of its entities and sampled trajectories.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	acmi "acmicore"
	"acmicore/internal/geoid"
	"acmicore/internal/trajectory"

	"acmicore/cmd/acmidump/geoidpgm"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./acmidump.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		log.Fatalf("read input failed: %v", err)
	}

	var grid *geoid.Grid
	if cfg.GeoidPath != "" {
		grid, err = loadGeoid(cfg.GeoidPath)
		if err != nil {
			log.Fatalf("geoid load failed: %v", err)
		}
	}

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	parser := acmi.NewParser(acmi.Options{
		ZipExtractor: zipExtractor{},
		Geoid:        grid,
		TypeFilter:   cfg.ExcludeTypes,
		Logger:       logger,
	})

	result, err := parser.Parse(context.Background(), data)
	if err != nil {
		log.Fatalf("parse failed: %v", err)
	}

	fmt.Printf("valid=%v entities=%d frames=%d\n", result.IsValid, result.Entities.Len(), len(result.Frames))

	trajectories := acmi.CreateSampledTrajectories(result, trajectory.Options{
		SampleRate:         cfg.SampleRate,
		EmulateOrientation: cfg.EmulateOrientation,
	})

	ids := result.Entities.IDs()
	for _, id := range ids {
		traj, ok := trajectories[id]
		if !ok {
			continue
		}
		entity, _ := result.Entities.Get(id)
		fmt.Printf("entity %x (%s): %d samples\n", id, entity.Name, len(traj.Samples))
	}
}

func loadGeoid(path string) (*geoid.Grid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// EGM2008 2.5-minute grid convention: north-edge origin, symmetric
	// longitude/latitude step.
	meta := geoidpgm.Metadata{DLat: 1.0 / 24, DLon: 1.0 / 24, Lat0: 90, Lon0: 0}
	return geoidpgm.Load(raw, meta)
}
