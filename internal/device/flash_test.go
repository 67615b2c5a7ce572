package device

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashRejectsLongScript(t *testing.T) {
	f := newFixture("linux")
	f.flasher.mount, f.flasher.located = t.TempDir(), true

	res, err := f.session.Flash(context.Background(), "big.py", make([]byte, MaxScriptBytes))
	require.NoError(t, err)
	assert.Equal(t, FlashRejected, res.Status)
	assert.Empty(t, f.flasher.writes, "device touched for an oversized script")
	assert.Equal(t, `Unable to flash "big.py"`, f.view.lastMessage().message)
	assert.Equal(t, "Your script is too long!", f.view.lastMessage().detail)
}

func TestFlashAcceptsLimitMinusOne(t *testing.T) {
	f := newFixture("linux")
	mount := t.TempDir()
	f.flasher.mount, f.flasher.located = mount, true

	res, err := f.session.Flash(context.Background(), "ok.py", make([]byte, MaxScriptBytes-1))
	require.NoError(t, err)
	assert.Equal(t, Flashed, res.Status)
	require.Len(t, f.flasher.writes, 1)
	assert.Equal(t, []string{mount}, f.flasher.writes[0].mounts)
}

func TestFlashAutoLocated(t *testing.T) {
	f := newFixture("linux")
	mount := t.TempDir()
	f.flasher.mount, f.flasher.located = mount, true

	res, err := f.session.Flash(context.Background(), "main.py", []byte("print('hi')"))
	require.NoError(t, err)
	assert.Equal(t, FlashResult{Status: Flashed, MountPath: mount}, res)
	assert.Empty(t, f.view.prompts)
	msg := f.view.lastMessage()
	assert.Equal(t, `Flashing "main.py" onto the micro:bit.`, msg.message)
	assert.Equal(t, KindInformation, msg.kind)
	assert.Equal(t, "", f.flasher.writes[0].runtime)
}

func TestFlashWithCustomRuntime(t *testing.T) {
	f := newFixture("linux")
	mount := t.TempDir()
	f.flasher.mount, f.flasher.located = mount, true
	rt := filepath.Join(t.TempDir(), "custom.hex")
	f.session.workspace = fakeWorkspace{dir: "/w", runtime: rt}

	res, err := f.session.Flash(context.Background(), "main.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Equal(t, rt, res.RuntimePath)
	assert.Equal(t, rt, f.flasher.writes[0].runtime)
	assert.True(t, strings.HasSuffix(f.view.lastMessage().message, "\nRuntime: "+rt))
}

func TestFlashPromptsOnceAndRemembers(t *testing.T) {
	f := newFixture("linux")
	mount := t.TempDir()
	f.view.promptPath = mount
	ctx := context.Background()

	res, err := f.session.Flash(ctx, "main.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Equal(t, Flashed, res.Status)
	assert.Equal(t, []string{"/home/u"}, f.view.prompts)
	assert.Equal(t, mount, f.session.RememberedPath())

	res, err = f.session.Flash(ctx, "main.py", []byte("x = 2"))
	require.NoError(t, err)
	assert.Equal(t, Flashed, res.Status)
	assert.Len(t, f.view.prompts, 1, "prompted again despite a remembered path")
	assert.Len(t, f.flasher.writes, 2)
}

func TestFlashStaleRememberedPathIsCleared(t *testing.T) {
	f := newFixture("linux")
	f.view.promptPath = filepath.Join(t.TempDir(), "gone")
	ctx := context.Background()

	res, err := f.session.Flash(ctx, "main.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Equal(t, FlashNotFound, res.Status)
	assert.Empty(t, f.session.RememberedPath())
	assert.Empty(t, f.flasher.writes)
	assert.Equal(t, "Could not find an attached BBC micro:bit.", f.view.lastMessage().message)

	// A cleared path means the next request asks again.
	_, err = f.session.Flash(ctx, "main.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Len(t, f.view.prompts, 2)
}

func TestFlashRememberedMountRemovedThenResupplied(t *testing.T) {
	f := newFixture("linux")
	first := filepath.Join(t.TempDir(), "MICROBIT")
	require.NoError(t, os.Mkdir(first, 0o755))
	f.view.promptPath = first
	ctx := context.Background()

	res, err := f.session.Flash(ctx, "main.py", []byte("x = 1"))
	require.NoError(t, err)
	assert.Equal(t, Flashed, res.Status)
	assert.Equal(t, first, f.session.RememberedPath())

	// board unplugged: the remembered mount is gone
	require.NoError(t, os.Remove(first))
	res, err = f.session.Flash(ctx, "main.py", []byte("x = 2"))
	require.NoError(t, err)
	assert.Equal(t, FlashNotFound, res.Status)
	assert.Empty(t, f.session.RememberedPath())
	assert.Len(t, f.view.prompts, 1, "remembered path should be tried before asking")

	second := t.TempDir()
	f.view.promptPath = second
	res, err = f.session.Flash(ctx, "main.py", []byte("x = 3"))
	require.NoError(t, err)
	assert.Equal(t, FlashResult{Status: Flashed, MountPath: second}, res)
	assert.Len(t, f.view.prompts, 2)
	assert.Equal(t, second, f.session.RememberedPath())

	res, err = f.session.Flash(ctx, "main.py", []byte("x = 4"))
	require.NoError(t, err)
	assert.Equal(t, second, res.MountPath)
	assert.Len(t, f.view.prompts, 2, "asked again after a fresh path was supplied")
	require.Len(t, f.flasher.writes, 3)
	assert.Equal(t, []string{second}, f.flasher.writes[2].mounts)
}

func TestFlashPromptCancelled(t *testing.T) {
	f := newFixture("linux")
	res, err := f.session.Flash(context.Background(), "main.py", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, FlashNotFound, res.Status)
	assert.Empty(t, f.session.RememberedPath())
}

func TestFlashWriteFailure(t *testing.T) {
	f := newFixture("linux")
	f.flasher.mount, f.flasher.located = t.TempDir(), true
	f.flasher.writeErr = errNoSerial

	res, err := f.session.Flash(context.Background(), "main.py", []byte("x"))
	require.ErrorIs(t, err, errNoSerial)
	assert.Equal(t, FlashFailed, res.Status)
	assert.Equal(t, `Could not flash "main.py".`, f.view.lastMessage().message)
}

func TestFlashIgnoresSessionMode(t *testing.T) {
	f := newFixture("linux")
	f.flasher.mount, f.flasher.located = t.TempDir(), true
	ctx := context.Background()
	_, err := f.session.StartRepl(ctx)
	require.NoError(t, err)

	res, err := f.session.Flash(ctx, "main.py", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, Flashed, res.Status)
	assert.Equal(t, ModeRepl, f.session.Mode())
}
