package speech

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// readWAVChannels walks the RIFF chunks of a WAV file and returns the
// channel count from the fmt sub-chunk.
func readWAVChannels(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return 0, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, fmt.Errorf("not a WAV file: %s", path)
	}

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(f, chunk[:]); err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		size := binary.LittleEndian.Uint32(chunk[4:8])

		if string(chunk[0:4]) == "fmt " {
			var fms [4]byte // audio format + channel count
			if _, err := io.ReadFull(f, fms[:]); err != nil {
				return 0, fmt.Errorf("read fmt chunk: %w", err)
			}
			return int(binary.LittleEndian.Uint16(fms[2:4])), nil
		}

		if _, err := f.Seek(int64(size), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("skip chunk: %w", err)
		}
	}
}
