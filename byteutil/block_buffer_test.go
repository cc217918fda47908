package byteutil_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xiwh/xmodem/byteutil"
)

func TestBlockBuffer(t *testing.T) {
	defer goleak.VerifyNone(t)
	buf := byteutil.NewBlockBuffer()
	go func() {
		for j := 0; j < 4; j++ {
			chunk := make([]byte, 64)
			for i := range chunk {
				chunk[i] = byte(i + 1)
			}
			_, _ = buf.Write(chunk)
			time.Sleep(5 * time.Millisecond)
		}
		_ = buf.Close()
	}()

	count := 0
	for {
		dd := make([]byte, 20)
		n, err := buf.Read(dd)
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
		count += n
	}
	assert.Equal(t, 4*64, count)
}

func TestBlockBufferReadByteTimeout(t *testing.T) {
	buf := byteutil.NewBlockBuffer()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := buf.ReadByteContext(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = buf.Write([]byte{0x06})
	require.NoError(t, err)
	b, err := buf.ReadByteContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(0x06), b)
}

func TestBlockBufferCloseWithError(t *testing.T) {
	boom := errors.New("boom")
	buf := byteutil.NewBlockBuffer()
	_, err := buf.Write([]byte{1, 2})
	require.NoError(t, err)
	require.NoError(t, buf.CloseWithError(boom))

	_, err = buf.Write([]byte{3})
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	// 先读完剩余数据再返回错误
	got, err := io.ReadAll(buf)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []byte{1, 2}, got)
}
