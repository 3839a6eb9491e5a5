package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Weight file layout:
//   Header (24 bytes):
//     - Magic (4): "NNW1"
//     - Version (2): 1
//     - Reserved (2)
//     - InputSize (4, uint32)
//     - HiddenSize (4, uint32)
//     - BodyLen (4, uint32): compressed body length
//     - Checksum (4, uint32): CRC32 of the compressed body
//   Body (compressed with zstd):
//     - little-endian float32 stream: W1, b1, W2, b2, W3, b3

const (
	weightsMagic   = "NNW1"
	weightsVersion = 1
	headerSize     = 24
)

var (
	// ErrBadMagic reports a file that is not a weight file.
	ErrBadMagic = errors.New("bad magic")
	// ErrBadVersion reports an unsupported weight file version.
	ErrBadVersion = errors.New("unsupported version")
	// ErrTruncated reports a weight file shorter than its header claims.
	ErrTruncated = errors.New("weight file truncated")
	// ErrChecksum reports body corruption.
	ErrChecksum = errors.New("checksum mismatch")
)

// WriteFile serializes n to path, creating parent directories as
// needed.
func WriteFile(path string, n *Network) error {
	raw := make([]byte, 0, 4*n.ParameterCount())
	var scratch [4]byte
	for _, param := range n.parameters() {
		for _, v := range param {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
			raw = append(raw, scratch[:]...)
		}
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	defer encoder.Close()
	body := encoder.EncodeAll(raw, nil)

	header := make([]byte, headerSize)
	copy(header[0:4], weightsMagic)
	binary.LittleEndian.PutUint16(header[4:6], weightsVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(n.inputSize))
	binary.LittleEndian.PutUint32(header[12:16], uint32(n.hiddenSize))
	binary.LittleEndian.PutUint32(header[16:20], uint32(len(body)))
	binary.LittleEndian.PutUint32(header[20:24], crc32.ChecksumIEEE(body))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return err
	}
	if _, err := f.Write(body); err != nil {
		return err
	}
	return nil
}

// ReadFile loads a network from a weight file written by WriteFile.
func ReadFile(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", path, ErrTruncated, len(data))
	}

	if string(data[0:4]) != weightsMagic {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrBadMagic, data[0:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != weightsVersion {
		return nil, fmt.Errorf("%s: %w: %d", path, ErrBadVersion, v)
	}
	inputSize := int(binary.LittleEndian.Uint32(data[8:12]))
	hiddenSize := int(binary.LittleEndian.Uint32(data[12:16]))
	bodyLen := int(binary.LittleEndian.Uint32(data[16:20]))
	checksum := binary.LittleEndian.Uint32(data[20:24])

	body := data[headerSize:]
	if len(body) != bodyLen {
		return nil, fmt.Errorf("%s: %w: body %d bytes, header claims %d", path, ErrTruncated, len(body), bodyLen)
	}
	if crc32.ChecksumIEEE(body) != checksum {
		return nil, fmt.Errorf("%s: %w", path, ErrChecksum)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer decoder.Close()
	raw, err := decoder.DecodeAll(body, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: decompress: %w", path, err)
	}

	n, err := NewNetwork(inputSize, hiddenSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if want := 4 * n.ParameterCount(); len(raw) != want {
		return nil, fmt.Errorf("%s: body size mismatch: got %d, want %d", path, len(raw), want)
	}

	off := 0
	for _, param := range n.parameters() {
		for i := range param {
			param[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[off:]))
			off += 4
		}
	}
	return n, nil
}
