// Command q2netdump replays a captured wire session through the frame
// assembler and prints per-frame delta statistics, optionally persisting
// them to a sqlite diagnostic store for later comparison.
package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/ernie/q2netcore/internal/clframe"
	"github.com/ernie/q2netcore/internal/config"
	"github.com/ernie/q2netcore/internal/demostore"
	"github.com/ernie/q2netcore/internal/msgbuf"
	"github.com/ernie/q2netcore/internal/netlog"
	"github.com/ernie/q2netcore/internal/transport"
)

func main() {
	log := netlog.New(os.Stderr)

	var (
		capturePath = pflag.StringP("capture", "c", "", "path to a zstd-compressed capture file (required)")
		dbPath      = pflag.String("db", "", "optional sqlite path to record per-frame diagnostics")
		demo        = pflag.Bool("demo", false, "treat the capture as a demo playback (forces PM_FREEZE)")
		configPath  = pflag.String("config", "", "optional YAML cvar file (cl_predict, cl_showclamp, cl_timedemo, map_noareas, sv_entfile)")
	)
	pflag.Parse()

	if *capturePath == "" {
		log.Errorf("-capture is required")
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

	f, err := os.Open(*capturePath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer f.Close()

	src, err := transport.OpenCapture(f)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer src.Close()

	var store *demostore.Store
	if *dbPath != "" {
		store, err = demostore.Open(*dbPath)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	asm := clframe.NewAssembler(cfg)
	asm.SetLogger(log)
	ctx := context.Background()
	frameCount := 0

	for {
		pkt, err := src.ReadPacket(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Errorf("read packet: %v", err)
			os.Exit(1)
		}

		r := msgbuf.NewReader(pkt)
		frame, err := asm.Process(r, *demo)
		if err != nil {
			log.Warnf("frame %d: %v", frameCount, err)
			continue
		}

		entities := asm.FrameEntities(frame)
		log.Infof("frame %d (delta=%d) entities=%d stale=%v",
			frame.ServerFrame, frame.DeltaFrame, len(entities), !frame.Valid)

		if store != nil {
			stats := demostore.FrameStats{
				ServerFrame: frame.ServerFrame,
				DeltaFrame:  frame.DeltaFrame,
				EntityCount: len(entities),
				WireBytes:   len(pkt),
				Stale:       !frame.Valid,
			}
			if err := store.RecordFrame(stats); err != nil {
				log.Errorf("%v", err)
			}
		}

		frameCount++
	}

	log.Infof("processed %d frames", frameCount)
}
