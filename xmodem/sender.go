package xmodem

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sigurn/crc16"

	"github.com/xiwh/xmodem/myioutil"
)

type Status uint8

const (
	StatusPending Status = iota
	StatusCompleted
	StatusCancelled
	StatusSourceUnavailable
	StatusFailed
)

func (t Status) String() string {
	switch t {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusSourceUnavailable:
		return "source-unavailable"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", uint8(t))
}

// Result 一次传输的结果
type Result struct {
	Status Status
	// Blocks 构建过的数据块个数
	Blocks int
	// FramesSent 写到线路上的数据块个数，包含重发
	FramesSent int
	// Retransmits 因NAK重发的次数
	Retransmits int
	// BytesRead 从文件读到的真实字节数(不含补位)
	BytesRead int64
	// Digest 所有数据块(补0后)的CRC-16/XMODEM
	Digest uint16
}

// Sender 发送一个文件，in/out分别是线路的输入和输出
type Sender struct {
	path       string
	in         io.Reader
	out        io.Writer
	logger     *slog.Logger
	maxRetries int
	timeout    time.Duration
	mode       ModeController
	banner     io.Writer
	trace      bool
	openFile   func(path string) (io.ReadCloser, error)
}

func openLocalFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func NewSender(path string, in io.Reader, out io.Writer, options ...SenderOptionFunc) *Sender {
	s := &Sender{
		path:     path,
		in:       in,
		out:      out,
		openFile: openLocalFile,
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.mode == nil {
		s.mode = nopMode{}
	}
	return s
}

// session 一次传输的全部状态，只属于当前这次Send调用
type session struct {
	sender      *Sender
	logger      *slog.Logger
	link        *link
	file        io.ReadCloser
	blockNumber byte
	eof         bool
	current     Block
	frame       []byte
	//当前块已经发出的次数
	sends      int
	rawEntered bool
	digest     crc16.Hash16
	state      State
	result     Result
	err        error
}

// Send 执行一次完整的传输，直到进入DONE
// 对端取消时返回ErrPeerCancelled，Result.Status为StatusCancelled
func (t *Sender) Send(ctx context.Context) (result Result, err error) {
	s := t.newSession()
	defer func() {
		s.release()
		result, err = s.result, s.err
	}()

	for s.state != StateDone {
		var event Event
		if ctxErr := ctx.Err(); ctxErr != nil {
			event = s.fail(ctxErr)
		} else {
			event = s.step(ctx)
		}
		next, ok := Transition(s.state, event)
		if !ok {
			s.fail(fmt.Errorf("no transition from %s on %s", s.state, event))
		}
		s.logger.Debug("state transition", "from", s.state, "event", event, "to", next)
		s.state = next
	}
	return
}

func (t *Sender) newSession() *session {
	out := t.out
	if t.trace {
		logger := t.logger
		wire := t.out
		out = myioutil.WriteFunc(func(p []byte) (n int, err error) {
			logger.Debug("wire write", "len", len(p), "dump", hex.Dump(p))
			return wire.Write(p)
		})
	}
	return &session{
		sender: t,
		logger: t.logger.With("file", t.path),
		link:   newLink(t.in, out, t.timeout),
		frame:  make([]byte, 0, FrameSize),
		digest: newDigest(),
		state:  StateInit,
	}
}

func (t *session) step(ctx context.Context) Event {
	switch t.state {
	case StateInit:
		return t.init()
	case StateAwaitAck:
		return t.awaitAck(ctx)
	case StateAdvance:
		return t.advance()
	case StateBuild:
		if err := t.buildBlock(); err != nil {
			return t.fail(err)
		}
		return EventBuilt
	case StateSend:
		return t.sendBlock()
	case StateSendEOT:
		return t.sendEOT(ctx)
	}
	return t.fail(fmt.Errorf("step in state %s", t.state))
}

func (t *session) init() Event {
	file, err := t.sender.openFile(t.sender.path)
	if err != nil {
		t.result.Status = StatusSourceUnavailable
		t.err = fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		t.logger.Error("could not open file", "error", err)
		return EventOpenFailed
	}
	t.file = file

	if t.sender.banner != nil {
		_, _ = fmt.Fprintf(t.sender.banner, "Sending %s via XMODEM. Start transfer now.\n", t.sender.path)
	}

	//第一块在等待接收方NAK之前就准备好
	if err = t.buildBlock(); err != nil {
		return t.fail(err)
	}
	if err = t.sender.mode.EnterRaw(); err != nil {
		return t.fail(fmt.Errorf("enter raw mode: %w", err))
	}
	t.rawEntered = true
	t.logger.Info("transfer started")
	return EventOpened
}

func (t *session) buildBlock() error {
	n, eof, err := t.current.fill(t.file, t.blockNumber)
	if err != nil {
		return fmt.Errorf("read %s: %w", t.sender.path, err)
	}
	t.eof = eof
	t.frame = t.current.AppendTo(t.frame[:0])
	t.sends = 0
	_, _ = t.digest.Write(t.current.Payload[:])
	t.result.Blocks++
	t.result.BytesRead += int64(n)
	t.logger.Debug("block built", "seq", t.current.Sequence, "bytes", n, "eof", eof, "cksum", t.current.Checksum)
	return nil
}

func (t *session) awaitAck(ctx context.Context) Event {
	c, err := t.link.awaitByte(ctx)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			t.abort()
		}
		return t.fail(err)
	}
	event := classify(c)
	switch event {
	case EventAck:
		t.logger.Debug("block acknowledged", "seq", t.current.Sequence)
	case EventNak:
		if t.sends > 0 {
			if limit := t.sender.maxRetries; limit > 0 && t.sends > limit {
				t.abort()
				return t.fail(fmt.Errorf("%w: seq %d sent %d times", ErrRetriesExhausted, t.current.Sequence, t.sends))
			}
			t.result.Retransmits++
			t.logger.Warn("block rejected, sending again", "seq", t.current.Sequence, "sends", t.sends)
		}
	case EventCancel:
		t.result.Status = StatusCancelled
		t.err = ErrPeerCancelled
		t.logger.Warn("transfer cancelled by peer", "seq", t.current.Sequence)
	default:
		t.logger.Debug("ignoring unexpected byte", "byte", XModemChar(c))
	}
	return event
}

func (t *session) advance() Event {
	if t.eof {
		return EventEndOfFile
	}
	t.blockNumber++
	return EventMoreData
}

func (t *session) sendBlock() Event {
	if err := t.link.emit(t.frame); err != nil {
		return t.fail(fmt.Errorf("write block %d: %w", t.current.Sequence, err))
	}
	t.sends++
	t.result.FramesSent++
	return EventSent
}

func (t *session) sendEOT(ctx context.Context) Event {
	if err := t.link.emit([]byte{byte(EOT)}); err != nil {
		return t.fail(fmt.Errorf("write EOT: %w", err))
	}
	//对EOT的应答只读不校验
	c, err := t.link.awaitByte(ctx)
	if err != nil {
		t.logger.Debug("no reply to EOT", "error", err)
	} else {
		t.logger.Debug("reply to EOT", "byte", XModemChar(c))
	}
	t.result.Status = StatusCompleted
	return EventSent
}

// abort 通知对端放弃本次传输
func (t *session) abort() {
	if t.rawEntered {
		_ = t.link.emit(ABORT_SEQ)
	}
}

func (t *session) fail(err error) Event {
	t.result.Status = StatusFailed
	t.err = err
	t.logger.Error("transfer failed", "state", t.state, "error", err)
	return EventFailed
}

// release 无论从哪条路径到达DONE都要关闭文件并恢复线路模式
func (t *session) release() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
	if t.rawEntered {
		if err := t.sender.mode.Restore(); err != nil {
			t.logger.Error("restore channel mode", "error", err)
		}
		t.rawEntered = false
	}
	t.result.Digest = t.digest.Sum16()
	if t.result.Status == StatusCompleted {
		t.logger.Info("transfer completed",
			"blocks", t.result.Blocks,
			"frames", t.result.FramesSent,
			"retransmits", t.result.Retransmits,
			"bytes", t.result.BytesRead,
			"crc16", fmt.Sprintf("%04x", t.result.Digest),
		)
	}
}
