package myioutil

import (
	"errors"
	"io"
)

type writeFuncStruct struct {
	f func(p []byte) (n int, err error)
}

func (w *writeFuncStruct) Write(p []byte) (n int, err error) {
	return w.f(p)
}

func WriteFunc(f func(p []byte) (n int, err error)) io.Writer {
	return &writeFuncStruct{
		f,
	}
}

// ReadBlock 读满buf或读到src结尾为止
// full为false表示src在填满buf之前已经没有数据了, 这种情况不算错误
func ReadBlock(src io.Reader, buf []byte) (n int, full bool, err error) {
	n, err = io.ReadFull(src, buf)
	switch {
	case err == nil:
		return n, true, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return n, false, nil
	default:
		return n, false, err
	}
}
