package device

import (
	"context"
	"errors"

	"mu/internal/board"
)

type shownMessage struct {
	message, detail string
	kind            MessageKind
}

type fakeView struct {
	messages   []shownMessage
	replOpen   bool
	fsOpen     bool
	fsHome     string
	replErr    error
	fsErr      error
	promptPath string
	prompts    []string
}

func (v *fakeView) ShowMessage(message, detail string, kind MessageKind) {
	v.messages = append(v.messages, shownMessage{message, detail, kind})
}

func (v *fakeView) AddFilesystem(home string) error {
	if v.fsErr != nil {
		return v.fsErr
	}
	v.fsOpen, v.fsHome = true, home
	return nil
}

func (v *fakeView) RemoveFilesystem() { v.fsOpen = false }

func (v *fakeView) AddRepl(*Repl) error {
	if v.replErr != nil {
		return v.replErr
	}
	v.replOpen = true
	return nil
}

func (v *fakeView) RemoveRepl() { v.replOpen = false }

func (v *fakeView) GetMicrobitPath(startDir string) string {
	v.prompts = append(v.prompts, startDir)
	return v.promptPath
}

func (v *fakeView) lastMessage() shownMessage {
	if len(v.messages) == 0 {
		return shownMessage{}
	}
	return v.messages[len(v.messages)-1]
}

type fakeBoards struct {
	port board.SerialPort
	ok   bool
	err  error
}

func (b *fakeBoards) Discover(context.Context) (board.SerialPort, bool, error) {
	return b.port, b.ok, b.err
}

type fakeTransport struct{ err error }

func (t *fakeTransport) Probe(context.Context) error { return t.err }

var errNoSerial = errors.New("no serial")

type fakeWorkspace struct {
	dir     string
	runtime string
}

func (w fakeWorkspace) Workspace(context.Context) string      { return w.dir }
func (w fakeWorkspace) RuntimeHexPath(context.Context) string { return w.runtime }

type writeCall struct {
	mounts  []string
	script  []byte
	runtime string
}

type fakeFlasher struct {
	mount    string
	located  bool
	writeErr error
	writes   []writeCall
}

func (f *fakeFlasher) LocateMount(context.Context) (string, bool) { return f.mount, f.located }

func (f *fakeFlasher) Write(_ context.Context, mounts []string, script []byte, runtime string) error {
	f.writes = append(f.writes, writeCall{mounts, script, runtime})
	return f.writeErr
}

func (f *fakeFlasher) ExtractScript(context.Context, string) (string, error) { return "", nil }

var microbit = board.SerialPort{Name: "ttyACM0", VendorID: 0x0D28, ProductID: 0x0204}

type fixture struct {
	view      *fakeView
	boards    *fakeBoards
	transport *fakeTransport
	flasher   *fakeFlasher
	session   *Session
}

func newFixture(goos string) *fixture {
	f := &fixture{
		view:      &fakeView{},
		boards:    &fakeBoards{port: microbit, ok: true},
		transport: &fakeTransport{},
		flasher:   &fakeFlasher{},
	}
	f.session = New(Config{
		View:      f.view,
		Boards:    f.boards,
		Transport: f.transport,
		Flasher:   f.flasher,
		Workspace: fakeWorkspace{dir: "/home/u/mu_code"},
		HomeDir:   "/home/u",
		GOOS:      goos,
	})
	return f
}
