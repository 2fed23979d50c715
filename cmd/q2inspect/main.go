// Command q2inspect loads a .bsp map file and prints lump counts, area
// connectivity, and optionally the result of one sample trace.
package main

import (
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/ernie/q2netcore/internal/area"
	"github.com/ernie/q2netcore/internal/bsp"
	"github.com/ernie/q2netcore/internal/config"
	"github.com/ernie/q2netcore/internal/netlog"
	"github.com/ernie/q2netcore/internal/trace"
	"github.com/ernie/q2netcore/internal/vis"
)

func main() {
	log := netlog.New(os.Stderr)

	var (
		mapPath    = pflag.StringP("map", "m", "", "path to a .bsp file (required)")
		entFile    = pflag.String("entfile", "", "optional sibling .ent file, used when the loaded config sets sv_entfile")
		tracePt    = pflag.Bool("trace-sample", false, "run a sample downward point trace from the origin against a player-sized box hull")
		configPath = pflag.String("config", "", "optional YAML cvar file (cl_predict, cl_showclamp, cl_timedemo, map_noareas, sv_entfile)")
	)
	pflag.Parse()

	if *mapPath == "" {
		log.Errorf("-map is required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	f, err := os.Open(*mapPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	var entData []byte
	if *entFile != "" {
		entData, err = os.ReadFile(*entFile)
		if err != nil {
			log.Errorf("reading entfile: %v", err)
			os.Exit(1)
		}
	}

	m, err := bsp.Load(f, info.Size(), entData, cfg, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	printSummary(log, m, width)

	visQuery, err := vis.New(m.VisData)
	if err != nil {
		log.Errorf("parsing vis lump: %v", err)
	} else {
		log.Infof("vis clusters: %d", visQuery.NumClusters())
	}

	areaState := area.New(m)
	buf := make([]byte, (len(m.Areas)+7)/8)
	bits := areaState.WriteAreaBits(buf, 0, cfg.MapNoareas)
	connected := 0
	for i := range m.Areas {
		for j := range m.Areas {
			if areaState.AreasConnected(i, j) {
				connected++
			}
		}
	}
	log.Infof("area connectivity pairs (map_noareas=%v): %d (area 0 bits: %d bytes)", cfg.MapNoareas, connected, bits)

	if *tracePt {
		overlay := &bsp.BoxOverlay{}
		headnode := m.HeadnodeForBox(overlay, [3]float32{-16, -16, -24}, [3]float32{16, 16, 32})
		tree := bsp.OverlayTree{Bsp: m, Overlay: overlay}
		res := trace.BoxTrace(tree, headnode, [3]float32{0, 0, 0}, [3]float32{0, 0, -4096}, [3]float32{}, [3]float32{}, 1)
		log.Infof("sample downward trace from origin: fraction=%.4f endpos=%v", res.Fraction, res.EndPos)
	}
}

func printSummary(log *netlog.Logger, m *bsp.Bsp, width int) {
	divider := make([]byte, width)
	for i := range divider {
		divider[i] = '-'
	}
	log.Infof("%s", string(divider))
	log.Infof("planes=%d nodes=%d leaves=%d brushes=%d brushsides=%d",
		len(m.Planes), len(m.Nodes), len(m.Leaves), len(m.Brushes), len(m.BrushSides))
	log.Infof("submodels=%d areas=%d areaportals=%d", len(m.Submodels), len(m.Areas), len(m.AreaPortals))
	log.Infof("%s", string(divider))
}
