package nnue

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Weight file layout, all little-endian:
//
//	header          magic, version, L1, L2 (uint32 each)
//	feature weights NumFeatures*L1 int16
//	feature bias    L1 int16
//	hidden weights  L2*2*L1 int8
//	hidden bias     L2 int32
//	output weights  L2 int8
//	output bias     int32
//
// The whole file may be wrapped in a zstd frame.
const (
	Magic   = 0x4E4E4743 // "CGNN"
	Version = 1

	maxL1 = 2048
	maxL2 = 256
)

var (
	ErrBadMagic   = errors.New("nnue: not a weight file")
	ErrBadVersion = errors.New("nnue: unsupported weight file version")
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

type fileHeader struct {
	Magic   uint32
	Version uint32
	L1      uint32
	L2      uint32
}

// LoadFile reads a network from path. Missing, truncated or malformed files
// are errors; the caller should treat them as fatal.
func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weights: %w", err)
	}
	defer f.Close()

	net, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}
	return net, nil
}

// Load reads a network, decompressing it first if it is zstd-framed.
func Load(r io.Reader) (*Network, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(zstdMagic)); err == nil && bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return decode(bufio.NewReader(dec))
	}
	return decode(br)
}

func decode(r io.Reader) (*Network, error) {
	var h fileHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: magic %#x", ErrBadMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, h.Version)
	}
	if h.L1 == 0 || h.L1 > maxL1 || h.L2 == 0 || h.L2 > maxL2 {
		return nil, fmt.Errorf("nnue: layer sizes %dx%d out of range", h.L1, h.L2)
	}

	n := newNetwork(int(h.L1), int(h.L2))
	sections := []struct {
		name string
		data any
	}{
		{"feature weights", n.FeatureWeights},
		{"feature bias", n.FeatureBias},
		{"hidden weights", n.HiddenWeights},
		{"hidden bias", n.HiddenBias},
		{"output weights", n.OutputWeights},
		{"output bias", &n.OutputBias},
	}
	for _, s := range sections {
		if err := binary.Read(r, binary.LittleEndian, s.data); err != nil {
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
	}

	var extra [1]byte
	switch k, err := io.ReadFull(r, extra[:]); {
	case k > 0:
		return nil, fmt.Errorf("nnue: trailing data after output bias")
	case err != io.EOF:
		return nil, fmt.Errorf("read trailer: %w", err)
	}
	return n, nil
}

// Save writes the network in the uncompressed file format.
func (n *Network) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	h := fileHeader{Magic: Magic, Version: Version, L1: uint32(n.L1), L2: uint32(n.L2)}
	for _, data := range []any{&h, n.FeatureWeights, n.FeatureBias, n.HiddenWeights,
		n.HiddenBias, n.OutputWeights, n.OutputBias} {
		if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
			return fmt.Errorf("write weights: %w", err)
		}
	}
	return bw.Flush()
}

// SaveFile writes the network to path, zstd-compressed when compress is set.
func (n *Network) SaveFile(path string, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create weights: %w", err)
	}
	defer f.Close()

	if !compress {
		if err := n.Save(f); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if err := n.Save(enc); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	return f.Close()
}
