package xmodem

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type State uint8

const (
	StateInit State = iota
	StateAwaitAck
	StateAdvance
	StateBuild
	StateSend
	StateSendEOT
	StateDone
)

var stateNames = [...]string{
	StateInit:     "INIT",
	StateAwaitAck: "AWAIT_ACK",
	StateAdvance:  "ADVANCE",
	StateBuild:    "BUILD",
	StateSend:     "SEND",
	StateSendEOT:  "SEND_EOT",
	StateDone:     "DONE",
}

func (t State) String() string {
	if int(t) < len(stateNames) {
		return stateNames[t]
	}
	return fmt.Sprintf("State(%d)", uint8(t))
}

// Event 驱动状态迁移的事件
type Event uint8

const (
	EventOpened Event = iota
	EventOpenFailed
	EventAck
	EventNak
	EventCancel
	EventOther
	EventEndOfFile
	EventMoreData
	EventBuilt
	EventSent
	EventFailed
)

var eventNames = [...]string{
	EventOpened:     "opened",
	EventOpenFailed: "open-failed",
	EventAck:        "ack",
	EventNak:        "nak",
	EventCancel:     "cancel",
	EventOther:      "other",
	EventEndOfFile:  "end-of-file",
	EventMoreData:   "more-data",
	EventBuilt:      "built",
	EventSent:       "sent",
	EventFailed:     "failed",
}

func (t Event) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return fmt.Sprintf("Event(%d)", uint8(t))
}

type transitionKey struct {
	state State
	event Event
}

var transitions = map[transitionKey]State{
	{StateInit, EventOpened}:     StateAwaitAck,
	{StateInit, EventOpenFailed}: StateDone,

	{StateAwaitAck, EventAck}:    StateAdvance,
	{StateAwaitAck, EventNak}:    StateSend,
	{StateAwaitAck, EventCancel}: StateDone,
	//不认识的字节原地继续读
	{StateAwaitAck, EventOther}: StateAwaitAck,

	{StateAdvance, EventEndOfFile}: StateSendEOT,
	{StateAdvance, EventMoreData}:  StateBuild,

	{StateBuild, EventBuilt}: StateSend,

	{StateSend, EventSent}: StateAwaitAck,

	{StateSendEOT, EventSent}: StateDone,
}

// Transition 状态迁移函数，对所有(state, event)都有定义:
// EventFailed 在任何非终止状态下都进入DONE；DONE不再迁移；表里没有的组合ok为false，同样进入DONE
func Transition(state State, event Event) (next State, ok bool) {
	if state == StateDone {
		return StateDone, false
	}
	if event == EventFailed {
		return StateDone, true
	}
	next, ok = transitions[transitionKey{state, event}]
	if !ok {
		return StateDone, false
	}
	return next, true
}

var (
	controlChars  = []XModemChar{ACK, NAK, CAN}
	controlEvents = []Event{EventAck, EventNak, EventCancel}
)

// classify 把收到的控制字节映射成事件
func classify(c byte) Event {
	if idx := slices.Index(controlChars, XModemChar(c)); idx != -1 {
		return controlEvents[idx]
	}
	return EventOther
}
