package codec

import "github.com/sandi2382/openham-modes/internal/core"

// AsciiCodec is a pass-through fallback codec used by the RX
// coordinator's codec-hint chain when Huffman decoding fails.
type AsciiCodec struct{}

func NewAsciiCodec() *AsciiCodec { return &AsciiCodec{} }

func (a *AsciiCodec) Encode(text string) ([]byte, error) {
	return []byte(text), nil
}

func (a *AsciiCodec) Decode(data []byte) (string, error) {
	for _, b := range data {
		if b > 0x7F {
			return "", core.NewError(core.KindDecodingFailed, "AsciiCodec.Decode", nil)
		}
	}
	return string(data), nil
}

func (a *AsciiCodec) CompressionRatio() float64 { return 1.0 }

func (a *AsciiCodec) Reset() {}
