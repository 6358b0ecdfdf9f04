// Package audio 解码 ebiten 音频库不支持的旧格式音效
package audio

import (
	"encoding/binary"
	"fmt"
)

// Sun/NeXT .au 文件头（大端序，至少 24 字节）
const (
	auMagic         = 0x2e736e64 // ".snd"
	auHeaderSize    = 24
	auEncodingULaw  = 1 // 8-bit μ-law
	auEncodingPCM16 = 3 // 16-bit 线性 PCM（大端）
)

// mulawTable μ-law 字节到 16 位 PCM 的对照表
var mulawTable = [256]int16{
	-32124, -31100, -30076, -29052, -28028, -27004, -25980, -24956,
	-23932, -22908, -21884, -20860, -19836, -18812, -17788, -16764,
	-15996, -15484, -14972, -14460, -13948, -13436, -12924, -12412,
	-11900, -11388, -10876, -10364, -9852, -9340, -8828, -8316,
	-7932, -7676, -7420, -7164, -6908, -6652, -6396, -6140,
	-5884, -5628, -5372, -5116, -4860, -4604, -4348, -4092,
	-3900, -3772, -3644, -3516, -3388, -3260, -3132, -3004,
	-2876, -2748, -2620, -2492, -2364, -2236, -2108, -1980,
	-1884, -1820, -1756, -1692, -1628, -1564, -1500, -1436,
	-1372, -1308, -1244, -1180, -1116, -1052, -988, -924,
	-876, -844, -812, -780, -748, -716, -684, -652,
	-620, -588, -556, -524, -492, -460, -428, -396,
	-372, -356, -340, -324, -308, -292, -276, -260,
	-244, -228, -212, -196, -180, -164, -148, -132,
	-120, -112, -104, -96, -88, -80, -72, -64,
	-56, -48, -40, -32, -24, -16, -8, 0,
	32124, 31100, 30076, 29052, 28028, 27004, 25980, 24956,
	23932, 22908, 21884, 20860, 19836, 18812, 17788, 16764,
	15996, 15484, 14972, 14460, 13948, 13436, 12924, 12412,
	11900, 11388, 10876, 10364, 9852, 9340, 8828, 8316,
	7932, 7676, 7420, 7164, 6908, 6652, 6396, 6140,
	5884, 5628, 5372, 5116, 4860, 4604, 4348, 4092,
	3900, 3772, 3644, 3516, 3388, 3260, 3132, 3004,
	2876, 2748, 2620, 2492, 2364, 2236, 2108, 1980,
	1884, 1820, 1756, 1692, 1628, 1564, 1500, 1436,
	1372, 1308, 1244, 1180, 1116, 1052, 988, 924,
	876, 844, 812, 780, 748, 716, 684, 652,
	620, 588, 556, 524, 492, 460, 428, 396,
	372, 356, 340, 324, 308, 292, 276, 260,
	244, 228, 212, 196, 180, 164, 148, 132,
	120, 112, 104, 96, 88, 80, 72, 64,
	56, 48, 40, 32, 24, 16, 8, 0,
}

// DecodeAU 把 .au 文件解码为 ebiten 使用的 PCM 格式
//
// 支持 μ-law 与 16 位线性 PCM，单声道或双声道。单声道会复制为双声道。
//
// 参数：
//   - data: 完整的 .au 文件内容
//
// 返回：
//   - []byte: 16 位小端、双声道交错的 PCM 数据
//   - int: 采样率（Hz）
//   - error: 文件头无效或编码不支持时返回错误
func DecodeAU(data []byte) ([]byte, int, error) {
	if len(data) < auHeaderSize {
		return nil, 0, fmt.Errorf("AU file too short: %d bytes (minimum %d)", len(data), auHeaderSize)
	}

	be := binary.BigEndian
	if magic := be.Uint32(data[0:4]); magic != auMagic {
		return nil, 0, fmt.Errorf("invalid AU magic number: 0x%08x", magic)
	}
	offset := int(be.Uint32(data[4:8]))
	size := be.Uint32(data[8:12])
	encoding := be.Uint32(data[12:16])
	sampleRate := int(be.Uint32(data[16:20]))
	channels := int(be.Uint32(data[20:24]))

	if channels < 1 || channels > 2 {
		return nil, 0, fmt.Errorf("unsupported AU channel count: %d", channels)
	}
	if sampleRate <= 0 {
		return nil, 0, fmt.Errorf("invalid AU sample rate: %d", sampleRate)
	}
	if offset < auHeaderSize || offset > len(data) {
		return nil, 0, fmt.Errorf("invalid AU data offset: %d (file size: %d)", offset, len(data))
	}

	body := data[offset:]
	// 0xFFFFFFFF 表示长度未知，读到文件末尾
	if size != 0xFFFFFFFF && int(size) < len(body) {
		body = body[:size]
	}

	var samples []int16
	switch encoding {
	case auEncodingULaw:
		samples = make([]int16, len(body))
		for i, b := range body {
			samples[i] = mulawTable[b]
		}
	case auEncodingPCM16:
		samples = make([]int16, len(body)/2)
		for i := range samples {
			samples[i] = int16(be.Uint16(body[i*2:]))
		}
	default:
		return nil, 0, fmt.Errorf("unsupported AU encoding: %d (supported: 1 μ-law, 3 PCM16)", encoding)
	}

	frames := len(samples) / channels
	pcm := make([]byte, frames*4)
	for f := 0; f < frames; f++ {
		left := samples[f*channels]
		right := left
		if channels == 2 {
			right = samples[f*channels+1]
		}
		binary.LittleEndian.PutUint16(pcm[f*4:], uint16(left))
		binary.LittleEndian.PutUint16(pcm[f*4+2:], uint16(right))
	}
	return pcm, sampleRate, nil
}
