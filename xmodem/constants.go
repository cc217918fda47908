package xmodem

import "fmt"

type XModemChar byte

var ABORT_SEQ = []byte{byte(CAN), byte(CAN)}

const (
	SOH XModemChar = 0x01
	EOT XModemChar = 0x04
	ACK XModemChar = 0x06
	NAK XModemChar = 0x15
	CAN XModemChar = 0x18
)

const (
	// PayloadSize 每个数据块固定128字节，不足补0
	PayloadSize = 128
	// FrameSize SOH + 块号 + 块号反码 + 数据 + 校验和
	FrameSize = 3 + PayloadSize + 1
)

func (t XModemChar) String() string {
	switch t {
	case SOH:
		return "SOH"
	case EOT:
		return "EOT"
	case ACK:
		return "ACK"
	case NAK:
		return "NAK"
	case CAN:
		return "CAN"
	}
	return fmt.Sprintf("0x%02x", byte(t))
}
