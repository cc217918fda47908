package xmodem

import "io"

// WithOpenFile 替换打开源文件的方式，测试里用来观察文件是否被关闭
func WithOpenFile(open func(path string) (io.ReadCloser, error)) SenderOptionFunc {
	return func(s *Sender) {
		s.openFile = open
	}
}
