package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"
	"strings"
)

const (
	extensionIntroducer = 0x21
	commentLabel        = 0xfe
	imageSeparator      = 0x2c
	trailer             = 0x3b
	maxSubBlock         = 255
)

var (
	ErrNoFrames   = errors.New("export: no frames to encode")
	ErrInvalidFPS = errors.New("export: fps must be positive")
	ErrMalformed  = errors.New("export: malformed gif stream")
)

// Metadata is embedded in the output as a GIF comment extension.
type Metadata struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
}

func (m Metadata) comment() string {
	var sb strings.Builder
	for _, kv := range [][2]string{{"title", m.Title}, {"author", m.Author}, {"description", m.Description}} {
		if kv[1] == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", kv[0], kv[1]))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// ParseMetadata reads the fields written by WriteGIF back from a comment.
func ParseMetadata(comment string) Metadata {
	var m Metadata
	for _, line := range strings.Split(comment, "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch key {
		case "title":
			m.Title = value
		case "author":
			m.Author = value
		case "description":
			m.Description = value
		}
	}
	return m
}

// Delay converts a frame rate to the GIF delay unit of 1/100 s.
func Delay(fps int) int {
	d := int(math.Round(100 / float64(fps)))
	if d < 1 {
		d = 1
	}
	return d
}

// WriteGIF encodes a looping animation at fps with meta embedded before
// the trailer. All frames share the palette of the first one.
func WriteGIF(w io.Writer, frames []*image.Paletted, fps int, meta Metadata) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if fps <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, fps)
	}

	delay := Delay(fps)
	anim := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		LoopCount: 0,
		Config: image.Config{
			ColorModel: color.Palette(frames[0].Palette),
			Width:      frames[0].Bounds().Dx(),
			Height:     frames[0].Bounds().Dy(),
		},
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return err
	}
	data := buf.Bytes()
	if len(data) == 0 || data[len(data)-1] != trailer {
		return ErrMalformed
	}

	bw := bufio.NewWriter(w)
	bw.Write(data[:len(data)-1])
	if c := meta.comment(); c != "" {
		writeComment(bw, c)
	}
	bw.WriteByte(trailer)
	return bw.Flush()
}

// SaveGIF writes the animation to path.
func SaveGIF(path string, frames []*image.Paletted, fps int, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(f, frames, fps, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeComment(w *bufio.Writer, text string) {
	w.WriteByte(extensionIntroducer)
	w.WriteByte(commentLabel)
	data := []byte(text)
	for len(data) > 0 {
		n := min(len(data), maxSubBlock)
		w.WriteByte(byte(n))
		w.Write(data[:n])
		data = data[n:]
	}
	w.WriteByte(0)
}

// ReadComments walks a GIF block stream and returns its comment
// extensions in order.
func ReadComments(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)

	header := make([]byte, 13)
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if sig := string(header[:6]); sig != "GIF89a" && sig != "GIF87a" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrMalformed, sig)
	}
	if err := skipColorTable(br, header[10]); err != nil {
		return nil, err
	}

	var comments []string
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch b {
		case trailer:
			return comments, nil
		case extensionIntroducer:
			label, err := br.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			data, err := readSubBlocks(br)
			if err != nil {
				return nil, err
			}
			if label == commentLabel {
				comments = append(comments, string(data))
			}
		case imageSeparator:
			desc := make([]byte, 9)
			if _, err := io.ReadFull(br, desc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			if err := skipColorTable(br, desc[8]); err != nil {
				return nil, err
			}
			if _, err := br.ReadByte(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			if _, err := readSubBlocks(br); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unexpected block 0x%02x", ErrMalformed, b)
		}
	}
}

func skipColorTable(br *bufio.Reader, packed byte) error {
	if packed&0x80 == 0 {
		return nil
	}
	size := 3 * (1 << ((packed & 0x07) + 1))
	if _, err := br.Discard(size); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func readSubBlocks(br *bufio.Reader) ([]byte, error) {
	var out []byte
	for {
		n, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if n == 0 {
			return out, nil
		}
		block := make([]byte, n)
		if _, err := io.ReadFull(br, block); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		out = append(out, block...)
	}
}
