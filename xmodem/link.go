package xmodem

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/xiwh/xmodem/byteutil"
)

// link 线路驱动: 原样写出字节，一次读一个控制字节
type link struct {
	in      io.Reader
	out     io.Writer
	timeout time.Duration
	pipe    *byteutil.BlockBuffer
	//已经有一个协程在读输入，结果还没被取走
	pending bool
	one     [1]byte
}

func newLink(in io.Reader, out io.Writer, timeout time.Duration) *link {
	return &link{
		in:      in,
		out:     out,
		timeout: timeout,
	}
}

func (t *link) emit(data []byte) error {
	_, err := t.out.Write(data)
	return err
}

func (t *link) awaitByte(ctx context.Context) (byte, error) {
	if t.timeout <= 0 && ctx.Done() == nil {
		//没有超时也不会被取消，直接堵塞读
		if _, err := io.ReadFull(t.in, t.one[:]); err != nil {
			return 0, err
		}
		return t.one[0], nil
	}

	t.request()
	waitCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	b, err := t.pipe.ReadByteContext(waitCtx)
	switch {
	case err == nil:
		t.pending = false
		return b, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return 0, ErrTimeout
	}
	return 0, err
}

// request 需要时才开一个协程从输入读一个字节放进pipe，不会多读
// 超时或取消时这次读取仍然挂着，下一次awaitByte直接等它的结果
func (t *link) request() {
	if t.pipe == nil {
		t.pipe = byteutil.NewBlockBuffer()
	}
	if t.pending {
		return
	}
	t.pending = true
	go func(in io.Reader, pipe *byteutil.BlockBuffer) {
		var one [1]byte
		if _, err := io.ReadFull(in, one[:]); err != nil {
			_ = pipe.CloseWithError(err)
			return
		}
		_, _ = pipe.Write(one[:])
	}(t.in, t.pipe)
}
