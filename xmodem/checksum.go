package xmodem

import (
	"github.com/sigurn/crc16"
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

// Checksum 8位累加和，溢出直接丢弃高位
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// 整个传输内容(补0后)的crc16，只用于日志和结果核对，不上线路
func newDigest() crc16.Hash16 {
	return crc16.New(crcTable)
}
