// Command floorprobe loads a collision asset without a window and prints the
// floor and eye height under each given x,z point.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/leterax/splatwalk/internal/config"
	"github.com/leterax/splatwalk/pkg/asset"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (for probe and eye height settings)")
	collisionPath := flag.String("collision", "", "Collision asset, overrides assets.collision")
	var at points
	flag.Var(&at, "at", "Point `x,z` to sample, may be repeated")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage: floorprobe [flags] [--] x,z [x,z ...]\n")
		fmt.Fprintf(out, "Use -at or put -- before the points when a coordinate is negative.\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	for _, arg := range flag.Args() {
		if err := at.Set(arg); err != nil {
			log.Fatalf("Invalid point %q: %v", arg, err)
		}
	}
	if len(at) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *collisionPath != "" {
		cfg.Assets.Collision = *collisionPath
	}

	set, info, err := asset.Load(cfg.Assets.Collision)
	if err != nil {
		log.Fatalf("Failed to load collision asset: %v", err)
	}
	fmt.Printf("%s: %d walkables, %d triangles, fingerprint %016x\n",
		info.Path, info.Meshes, info.Triangles, info.Fingerprint)

	settings := cfg.MovementSettings()
	probe := settings.FloorProbe(set)

	for _, p := range at {
		hit, ok := probe.Probe(p.x, p.z)
		if !ok {
			fmt.Printf("x=%g z=%g: no floor\n", p.x, p.z)
			continue
		}
		fmt.Printf("x=%g z=%g: floor=%g eye=%g surface=%s\n",
			p.x, p.z, hit.Point.Y(), hit.Point.Y()+settings.EyeHeight, hit.Surface)
	}
}

type point struct {
	x, z float32
}

// points collects every -at flag in order
type points []point

func (p *points) String() string {
	parts := make([]string, len(*p))
	for i, pt := range *p {
		parts[i] = fmt.Sprintf("%g,%g", pt.x, pt.z)
	}
	return strings.Join(parts, " ")
}

func (p *points) Set(s string) error {
	x, z, err := parsePoint(s)
	if err != nil {
		return err
	}
	*p = append(*p, point{x: x, z: z})
	return nil
}

func parsePoint(s string) (float32, float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,z")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse x: %w", err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse z: %w", err)
	}
	return float32(x), float32(z), nil
}
