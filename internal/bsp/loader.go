package bsp

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/blake2b"

	"github.com/ernie/q2netcore/internal/config"
	"github.com/ernie/q2netcore/internal/netlog"
)

const (
	identIBSP = "IBSP"
	identQBSP = "QBSP"

	numLumps = 19
	// header: 4-byte ident + 4-byte version + 19 lumps * (offset+length)
	headerSize = 8 + numLumps*8

	lumpEntities    = 0
	lumpPlanes      = 1
	lumpVisibility  = 3
	lumpNodes       = 4
	lumpTexinfo     = 5
	lumpLeaves      = 8
	lumpLeafBrushes = 10
	lumpModels      = 13
	lumpBrushes     = 14
	lumpBrushSides  = 15
	lumpAreas       = 17
	lumpAreaPortals = 18
)

// MapVersion is the one protocol map version this loader accepts (spec's
// Non-goal: "a single protocol version is specified").
const MapVersion = 46

// Errors per the error handling design's MapParseError kind: header
// mismatch, lump misalignment, count out of bounds, leaf-0 not solid.
// These are developer-facing load failures, not wire-data errors, and may
// legitimately reach a panic at the cmd/ boundary.
type MapParseError struct {
	Reason string
}

func (e *MapParseError) Error() string { return "bsp: map parse error: " + e.Reason }

type lumpRef struct {
	offset int32
	length int32
}

// Load parses a complete map container from r, appends the box hull, and
// returns the ready-to-query Bsp. entFile, if non-empty, is the contents of
// a sibling .ent file that replaces the embedded entity string, but only
// takes effect when cfg.SvEntfile is set (§4.7); cfg may be nil, in which
// case sv_entfile defaults off and entFile is ignored. logger receives the
// load summary and checksum failures; pass nil to get a default stderr
// logger.
func Load(r io.ReaderAt, size int64, entFile []byte, cfg *config.Config, logger *netlog.Logger) (*Bsp, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if !cfg.SvEntfile {
		entFile = nil
	}
	if logger == nil {
		logger = netlog.New(os.Stderr)
	}
	if size < int64(headerSize) {
		return nil, fmt.Errorf("reading header: %w", &MapParseError{Reason: "file too small for header"})
	}

	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	ident := string(header[0:4])
	if ident != identIBSP && ident != identQBSP {
		return nil, fmt.Errorf("reading header: %w", &MapParseError{Reason: fmt.Sprintf("unrecognized ident %q", ident)})
	}
	wide := ident == identQBSP

	version := int32(binary.LittleEndian.Uint32(header[4:8]))
	if version != MapVersion {
		return nil, fmt.Errorf("reading header: %w", &MapParseError{Reason: fmt.Sprintf("unsupported version %d", version)})
	}

	lumps := make([]lumpRef, numLumps)
	for i := range lumps {
		base := 8 + i*8
		lumps[i] = lumpRef{
			offset: int32(binary.LittleEndian.Uint32(header[base:])),
			length: int32(binary.LittleEndian.Uint32(header[base+4:])),
		}
	}

	readLump := func(idx int) ([]byte, error) {
		l := lumps[idx]
		if l.offset < 0 || l.length < 0 || int64(l.offset)+int64(l.length) > size {
			return nil, &MapParseError{Reason: fmt.Sprintf("lump %d out of bounds", idx)}
		}
		if l.length == 0 {
			return nil, nil
		}
		buf := make([]byte, l.length)
		if _, err := r.ReadAt(buf, int64(l.offset)); err != nil {
			return nil, err
		}
		return buf, nil
	}

	b := &Bsp{}

	entData, err := readLump(lumpEntities)
	if err != nil {
		return nil, fmt.Errorf("reading entities lump: %w", err)
	}
	if len(entFile) > 0 {
		b.EntityStr = string(entFile)
	} else {
		b.EntityStr = readNullTerminatedString(entData)
	}

	planeData, err := readLump(lumpPlanes)
	if err != nil {
		return nil, fmt.Errorf("reading planes lump: %w", err)
	}
	b.Planes, err = parsePlanes(planeData)
	if err != nil {
		return nil, fmt.Errorf("parsing planes: %w", err)
	}

	nodeData, err := readLump(lumpNodes)
	if err != nil {
		return nil, fmt.Errorf("reading nodes lump: %w", err)
	}
	b.Nodes, err = parseNodes(nodeData, wide, len(b.Planes))
	if err != nil {
		return nil, fmt.Errorf("parsing nodes: %w", err)
	}

	texData, err := readLump(lumpTexinfo)
	if err != nil {
		return nil, fmt.Errorf("reading texinfo lump: %w", err)
	}
	b.Surfaces = parseSurfaces(texData)

	leafData, err := readLump(lumpLeaves)
	if err != nil {
		return nil, fmt.Errorf("reading leaves lump: %w", err)
	}
	leafBrushData, err := readLump(lumpLeafBrushes)
	if err != nil {
		return nil, fmt.Errorf("reading leafbrushes lump: %w", err)
	}
	b.LeafBrushes, err = parseLeafBrushes(leafBrushData, wide)
	if err != nil {
		return nil, fmt.Errorf("parsing leafbrushes: %w", err)
	}
	b.Leaves, err = parseLeaves(leafData, wide, len(b.LeafBrushes))
	if err != nil {
		return nil, fmt.Errorf("parsing leaves: %w", err)
	}

	brushData, err := readLump(lumpBrushes)
	if err != nil {
		return nil, fmt.Errorf("reading brushes lump: %w", err)
	}
	brushSideData, err := readLump(lumpBrushSides)
	if err != nil {
		return nil, fmt.Errorf("reading brushsides lump: %w", err)
	}
	b.BrushSides, err = parseBrushSides(brushSideData, wide, len(b.Planes), len(b.Surfaces))
	if err != nil {
		return nil, fmt.Errorf("parsing brushsides: %w", err)
	}
	b.Brushes, err = parseBrushes(brushData, len(b.BrushSides))
	if err != nil {
		return nil, fmt.Errorf("parsing brushes: %w", err)
	}

	modelData, err := readLump(lumpModels)
	if err != nil {
		return nil, fmt.Errorf("reading models lump: %w", err)
	}
	b.Submodels, err = parseSubmodels(modelData)
	if err != nil {
		return nil, fmt.Errorf("parsing models: %w", err)
	}

	areaData, err := readLump(lumpAreas)
	if err != nil {
		return nil, fmt.Errorf("reading areas lump: %w", err)
	}
	b.Areas = parseAreas(areaData)

	areaPortalData, err := readLump(lumpAreaPortals)
	if err != nil {
		return nil, fmt.Errorf("reading areaportals lump: %w", err)
	}
	b.AreaPortals = parseAreaPortals(areaPortalData)
	b.NumAreas = len(b.Areas)

	visData, err := readLump(lumpVisibility)
	if err != nil {
		return nil, fmt.Errorf("reading visibility lump: %w", err)
	}
	b.VisData = visData
	if len(visData) >= 4 {
		b.NumClusters = int(binary.LittleEndian.Uint32(visData[0:4]))
	}

	if len(b.Leaves) == 0 || b.Leaves[0].Contents&contentsSolid == 0 {
		return nil, fmt.Errorf("validating leaves: %w", &MapParseError{Reason: "leaf 0 is not solid"})
	}
	emptyLeaf := int32(-1)
	for i, l := range b.Leaves {
		if l.Contents&contentsSolid == 0 {
			emptyLeaf = int32(i)
			break
		}
	}
	if emptyLeaf < 0 {
		return nil, fmt.Errorf("validating leaves: %w", &MapParseError{Reason: "no non-solid leaf exists for the empty-leaf sentinel"})
	}
	b.EmptyLeaf = emptyLeaf

	initBoxHull(b)

	sum, err := checksum(r, size)
	if err != nil {
		logger.Warnf("could not compute integrity checksum: %v", err)
	} else {
		logger.Infof("loaded map (%s, %d planes, %d nodes, %d leaves, %d areas) checksum=%x",
			humanize.Bytes(uint64(size)), len(b.Planes), len(b.Nodes), len(b.Leaves), len(b.Areas), sum[:8])
	}

	return b, nil
}

const contentsSolid = 1

// checksum hashes the whole map container so two clients can confirm they
// loaded byte-identical data, replacing the original's CRC-style
// Com_BlockChecksum with a real hash.
func checksum(r io.ReaderAt, size int64) ([blake2b.Size]byte, error) {
	var out [blake2b.Size]byte
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return out, err
	}
	sum := blake2b.Sum512(buf)
	return sum, nil
}

func readNullTerminatedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
