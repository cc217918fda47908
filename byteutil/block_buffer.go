package byteutil

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// BlockBuffer 内存管道，写入不堵塞，读取在有数据或者关闭之前一直堵塞
// 只支持单个读取方
type BlockBuffer struct {
	buf    bytes.Buffer
	notify chan struct{}
	lock   sync.Mutex
	closed bool
	err    error
}

func NewBlockBuffer() *BlockBuffer {
	return &BlockBuffer{
		notify: make(chan struct{}, 1),
	}
}

func (t *BlockBuffer) Write(data []byte) (int, error) {
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return 0, io.ErrClosedPipe
	}
	n, err := t.buf.Write(data)
	t.lock.Unlock()
	t.wake()
	return n, err
}

// Read 至少读到一个字节才返回，关闭并且读完之后返回关闭时的错误(默认io.EOF)
func (t *BlockBuffer) Read(b []byte) (int, error) {
	return t.ReadContext(context.Background(), b)
}

func (t *BlockBuffer) ReadContext(ctx context.Context, b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	for {
		t.lock.Lock()
		if t.buf.Len() > 0 {
			n, _ := t.buf.Read(b)
			t.lock.Unlock()
			return n, nil
		}
		if t.closed {
			err := t.err
			t.lock.Unlock()
			return 0, err
		}
		t.lock.Unlock()

		select {
		case <-t.notify:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

func (t *BlockBuffer) ReadByteContext(ctx context.Context) (byte, error) {
	var one [1]byte
	if _, err := t.ReadContext(ctx, one[:]); err != nil {
		return 0, err
	}
	return one[0], nil
}

func (t *BlockBuffer) Close() error {
	return t.CloseWithError(nil)
}

// CloseWithError 关闭写入端，已写入的数据仍然可以读完
func (t *BlockBuffer) CloseWithError(err error) error {
	if err == nil {
		err = io.EOF
	}
	t.lock.Lock()
	if t.closed {
		t.lock.Unlock()
		return nil
	}
	t.closed = true
	t.err = err
	t.lock.Unlock()
	t.wake()
	return nil
}

func (t *BlockBuffer) wake() {
	select {
	case t.notify <- struct{}{}:
	default:
	}
}
