package rawmode

import (
	"golang.org/x/term"
)

// Terminal 把一个终端文件描述符切到raw模式，Restore时恢复原来的设置
// 不是终端(管道、重定向的文件)时什么都不做
type Terminal struct {
	fd    int
	state *term.State
}

func NewTerminal(fd int) *Terminal {
	return &Terminal{fd: fd}
}

func (t *Terminal) EnterRaw() error {
	if t.state != nil || !term.IsTerminal(t.fd) {
		return nil
	}
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	err := term.Restore(t.fd, t.state)
	t.state = nil
	return err
}

// Nop 串口等本身就是二进制透明的线路不需要切换模式
type Nop struct{}

func (Nop) EnterRaw() error { return nil }
func (Nop) Restore() error  { return nil }
