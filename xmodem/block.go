package xmodem

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/xiwh/xmodem/collectionutil"
	"github.com/xiwh/xmodem/myioutil"
)

// Block 一个完整的XMODEM数据块
type Block struct {
	Sequence byte
	Payload  [PayloadSize]byte
	Checksum byte
}

// Complement 块号反码，Sequence + Complement 恒等于0xFF
func (t Block) Complement() byte {
	return 0xFF - t.Sequence
}

func (t Block) Marshal() []byte {
	return t.AppendTo(make([]byte, 0, FrameSize))
}

// AppendTo 按线路格式追加到dst: SOH, 块号, 反码, 128字节数据, 校验和
func (t Block) AppendTo(dst []byte) []byte {
	dst = append(dst, byte(SOH), t.Sequence, t.Complement())
	dst = append(dst, t.Payload[:]...)
	return append(dst, t.Checksum)
}

func (t Block) ToString() string {
	return fmt.Sprintf("seq:%d,nseq:%d,cksum:0x%02x,data:%s",
		t.Sequence,
		t.Complement(),
		t.Checksum,
		hex.EncodeToString(t.Payload[:]),
	)
}

// BuildBlock 从src读取最多128字节组成第blockNumber块(线路上的块号为blockNumber+1)
// src没能填满数据区时eof为true，剩余部分补0
func BuildBlock(src io.Reader, blockNumber byte) (block Block, n int, eof bool, err error) {
	n, eof, err = block.fill(src, blockNumber)
	return block, n, eof, err
}

func (t *Block) fill(src io.Reader, blockNumber byte) (n int, eof bool, err error) {
	//每次填充前先清零，短块的补位一定是0
	collectionutil.Fill(t.Payload[:], 0)
	n, full, err := myioutil.ReadBlock(src, t.Payload[:])
	if err != nil {
		return n, false, err
	}
	t.Sequence = blockNumber + 1
	t.Checksum = Checksum(t.Payload[:])
	return n, !full, nil
}
